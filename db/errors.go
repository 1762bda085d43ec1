package db

import "errors"

var (
	ErrShardMagic    = errors.New("db: bad shard magic")
	ErrShardChecksum = errors.New("db: shard checksum mismatch")
	ErrShardVersion  = errors.New("db: unsupported shard version")
	ErrRowOutOfRange = errors.New("db: row out of range")
	ErrRowGap        = errors.New("db: shard files do not cover a contiguous row range")
)
