package domain

import "errors"

var (
	ErrModNotFound    = errors.New("mod not found")
	ErrGameNotFound   = errors.New("Deadlock installation not found")
	ErrNotVPK         = errors.New("not a VPK archive")
	ErrNoFreeSlot     = errors.New("no free pak slot in 01-99")
	ErrSlotTaken      = errors.New("pak slot already in use")
	ErrDownloadFailed = errors.New("download failed")
	ErrExtractFailed  = errors.New("extraction failed")
	ErrQueueClosed    = errors.New("download queue is closed")
)
