package h5loader

import (
	"io"
	"log/slog"

	"github.com/scigolib/hdf5"
)

// SuperblockV2 is the superblock layout of new containers (HDF5 1.10+, with
// checksums). It is the only layout that can hold records.
const SuperblockV2 uint8 = hdf5.SuperblockV2

// Option configures OpenForWrite, OpenForRead and the helpers built on them.
type Option func(*config)

type config struct {
	logger            *slog.Logger
	superblockVersion uint8
}

func newConfig(opts []Option) *config {
	cfg := &config{
		logger:            discardLogger(),
		superblockVersion: SuperblockV2,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger routes operation logs to l. If nil is passed, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		if l == nil {
			l = discardLogger()
		}
		cfg.logger = l
	}
}

// WithSuperblockVersion selects the on-disk superblock layout for new
// containers. It has no effect on readers. OpenForWrite rejects any version
// other than SuperblockV2: the legacy v0 layout cannot link datasets into
// its root group.
func WithSuperblockVersion(version uint8) Option {
	return func(cfg *config) {
		cfg.superblockVersion = version
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
