package domain

import "errors"

var (
	ErrDaemonAlreadyRunning = errors.New("sentinel daemon already running")
	ErrDaemonNotRunning     = errors.New("sentinel daemon not running")
	ErrArchiveVerify        = errors.New("archive verification failed")
	ErrMonitoringDisabled   = errors.New("bloat detection disabled by configuration")
)
