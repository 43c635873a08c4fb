// Package h5loader writes and reads small HDF5 containers of named, typed
// arrays ("records") on top of the pure Go github.com/scigolib/hdf5 library.
//
// A container is created with OpenForWrite, filled with CreateRecord and
// closed; it is read back with OpenForRead, ListRecordNames and ReadRecord.
// Records are 1-D or N-D arrays of int64, float64 or fixed-width byte
// strings, stored flat in row-major order.
//
// The package also carries the standard test container used by the
// h5create and h5load commands (four records: integers, floats, strings and
// twoD; see NewFixture, WriteFixture and ReadFixture) and typed loaders that
// open, read and close in one call (LoadInt32s, LoadFloat32Matrix, ...).
//
// Failures are reported as *Error values whose category can be matched with
// errors.Is against ErrFileAccess, ErrMissingRecord, ErrTypeMismatch,
// ErrDuplicateRecord and ErrClosed.
package h5loader
