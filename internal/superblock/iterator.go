// File: internal/superblock/iterator.go
package superblock

// Metadata blocks live in the first and last slices of the device. Begin
// and Next enumerate their byte offsets in a fixed order: every block of
// the head slice, then every block of the tail slice. The iterator is
// restartable but not concurrent-safe; one traversal at a time.

// Begin positions the iterator at the first metadata offset. It reports
// false when geometry has not been initialized.
func (s *Superblock) Begin() bool {
	if s.vol.SliceSize == 0 {
		s.logger.Debug("offset iteration attempted before init")
		return false
	}
	s.offset = 0
	return true
}

// Next advances to the following metadata offset, jumping from the end of
// the head slice to the start of the tail slice. It reports false when the
// tail slice is exhausted.
func (s *Superblock) Next() bool {
	s.offset += uint64(len(s.block))
	// Still inside the current slice.
	if s.offset%s.vol.SliceSize != 0 {
		return true
	}
	// Finished the head slice; jump to the tail slice. The tail begins
	// after the adjusted slice count plus the head's reserved slice.
	if s.offset <= s.vol.SliceSize {
		s.offset = (s.vol.VSliceCount + 1) * s.vol.SliceSize
		return true
	}
	return false
}
