package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrRemoteQuery  = errors.New("remote query failed")
	ErrRemoteWrite  = errors.New("remote write failed")
)

// RemoteQueryError 讀取遠端 collection 失敗，Message 即 store 回報的訊息
type RemoteQueryError struct {
	Message string
	Err     error
}

func NewRemoteQueryError(err error) *RemoteQueryError {
	return &RemoteQueryError{Message: err.Error(), Err: err}
}

func (e *RemoteQueryError) Error() string { return e.Message }

func (e *RemoteQueryError) Unwrap() error { return e.Err }

func (e *RemoteQueryError) Is(target error) bool { return target == ErrRemoteQuery }

// RemoteWriteError 寫入 (insert/update/delete) 失敗，Message 即 store 回報的訊息
type RemoteWriteError struct {
	Message string
	Err     error
}

func NewRemoteWriteError(err error) *RemoteWriteError {
	return &RemoteWriteError{Message: err.Error(), Err: err}
}

func (e *RemoteWriteError) Error() string { return e.Message }

func (e *RemoteWriteError) Unwrap() error { return e.Err }

func (e *RemoteWriteError) Is(target error) bool { return target == ErrRemoteWrite }
