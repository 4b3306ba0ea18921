// Package spool implements a write-only byte sink that buffers in memory up
// to a configured threshold and transparently overflows to a uniquely named
// temporary file once the threshold would be crossed. Everything buffered can
// be replayed, in original write order, to any io.Writer.
// spool is NOT safe for concurrent use; a single logical caller drives each Buffer.
package spool

import (
	"context"
	"io"

	"github.com/spool-dev/spool/pagebuf"
	"github.com/spool-dev/spool/tempfile"
)

// Buffer is a staged write sink. Writes below the memory threshold accumulate
// in a paged in-memory buffer; a write that would cross the threshold first
// moves everything buffered so far into a spill file and then appends to it.
// Small writes after a spill may buffer in memory again; replay order is
// still correct because the spill file always holds the older bytes.
//
// Buffer implements io.Writer, io.ReaderFrom and io.Closer. It is
// write/replay-only: Read and Seek always fail with ErrNotSupported.
type Buffer struct {
	config  Config
	memory  *pagebuf.Buffer
	file    *tempfile.File
	fileLen int64
	closed  bool
}

// New returns an empty Buffer. config may be nil to use the defaults, or set
// only the non-default values desired.
func New(config *Config) (*Buffer, error) {
	config = mergeConfig(config)
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return &Buffer{
		config: *config,
		memory: pagebuf.New(config.PageSize, config.Pool),
	}, nil
}

// buffered is the total number of bytes held across memory and the spill file.
func (b *Buffer) buffered() int64 {
	return int64(b.memory.Len()) + b.fileLen
}

// Write buffers p, spilling to disk when p would no longer fit under the
// memory threshold alongside what is already buffered. It implements
// io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	return b.WriteContext(context.Background(), p)
}

// WriteContext is Write with cancellation of the file I/O a spilling write
// performs. In-memory writes never block on ctx. A cancelled write may have
// partially reached the spill file; the byte-level state of that write is
// then unspecified, as with any cancelled stream write.
func (b *Buffer) WriteContext(ctx context.Context, p []byte) (int, error) {
	if b.closed {
		return 0, ErrClosed
	}
	if b.config.BufferLimit > 0 && b.config.BufferLimit-b.buffered() < int64(len(p)) {
		limitErr := &LimitError{
			Limit:     b.config.BufferLimit,
			Buffered:  b.buffered(),
			Requested: len(p),
		}
		// Past the cap there is no consistent partial-acceptance semantics;
		// reject the write and take the instance out of service.
		b.config.Metrics.recordRejection()
		_ = b.Close()
		return 0, limitErr
	}
	if b.config.MemoryThreshold-len(p) >= b.memory.Len() {
		b.memory.Append(p)
		b.config.Metrics.recordWrite(len(p), true)
		return len(p), nil
	}
	n, err := b.spill(ctx, p)
	if err != nil {
		return n, err
	}
	b.config.Metrics.recordWrite(len(p), false)
	return len(p), nil
}

// spill makes sure the overflow file exists, moves the current memory
// contents into it, and appends p directly after them. It returns the number
// of bytes of p that reached the file.
func (b *Buffer) spill(ctx context.Context, p []byte) (int, error) {
	if b.file == nil {
		dir, err := b.config.TempDir()
		if err != nil {
			return 0, newFileError(err, "resolving temp dir", "")
		}
		b.file, err = tempfile.New(dir)
		if err != nil {
			return 0, newFileError(err, "creating spill file", dir)
		}
	}
	// A drain that failed partway leaves orphan bytes past fileLen in the
	// file; appending at fileLen overwrites them instead of replaying them.
	if _, err := b.file.Seek(b.fileLen, io.SeekStart); err != nil {
		return 0, newFileError(err, "positioning spill file", b.file.Name())
	}
	memLen := b.memory.Len()
	if err := b.memory.DrainToContext(ctx, b.file, true); err != nil {
		return 0, newFileError(err, "spilling buffered bytes", b.file.Name())
	}
	b.fileLen += int64(memLen)
	b.config.Metrics.recordSpill(memLen)
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := b.file.Write(p)
	b.fileLen += int64(n)
	if err != nil {
		return n, newFileError(err, "writing spill file", b.file.Name())
	}
	return n, nil
}

// ReadFrom buffers everything r produces until EOF, applying the same
// threshold and limit policy as Write. It implements io.ReaderFrom.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	if b.closed {
		return 0, ErrClosed
	}
	if r == nil {
		return 0, &ConfigError{Field: "r", Value: nil, Reason: "nil reader"}
	}
	buf := make([]byte, DefaultCopyBufferSize)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			written, werr := b.Write(buf[:n])
			total += int64(written)
			if werr != nil {
				return total, werr
			}
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// CopyTo replays everything buffered so far to dst: the spill file contents
// first, read from the start, then the in-memory tail. Neither storage is
// cleared, so repeating the call without interleaved writes reproduces
// byte-identical output. bufSize <= 0 selects DefaultCopyBufferSize.
func (b *Buffer) CopyTo(dst io.Writer, bufSize int) error {
	return b.CopyToContext(context.Background(), dst, bufSize)
}

// CopyToContext is CopyTo with cancellation between transfer chunks.
func (b *Buffer) CopyToContext(ctx context.Context, dst io.Writer, bufSize int) error {
	if b.closed {
		return ErrClosed
	}
	if dst == nil {
		return &ConfigError{Field: "dst", Value: nil, Reason: "nil destination"}
	}
	if bufSize <= 0 {
		bufSize = DefaultCopyBufferSize
	}
	if b.file != nil {
		if err := b.copyFile(ctx, dst, bufSize); err != nil {
			return err
		}
	}
	return b.memory.DrainToContext(ctx, dst, false)
}

// copyFile streams the spill file to dst from its start and restores the
// file offset to fileLen so later writes keep appending.
func (b *Buffer) copyFile(ctx context.Context, dst io.Writer, bufSize int) (err error) {
	if _, err := b.file.Seek(0, io.SeekStart); err != nil {
		return newFileError(err, "rewinding spill file", b.file.Name())
	}
	// later writes append at fileLen; the offset must point there again
	// even when the copy fails partway
	defer func() {
		if _, seekErr := b.file.Seek(b.fileLen, io.SeekStart); seekErr != nil && err == nil {
			err = newFileError(seekErr, "repositioning spill file", b.file.Name())
		}
	}()
	buf := make([]byte, bufSize)
	remaining := b.fileLen
	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk := buf
		if remaining < int64(len(chunk)) {
			chunk = chunk[:remaining]
		}
		read, err := b.file.Read(chunk)
		if read > 0 {
			if _, werr := dst.Write(chunk[:read]); werr != nil {
				return werr
			}
			remaining -= int64(read)
		}
		if err != nil {
			return newFileError(err, "reading spill file", b.file.Name())
		}
	}
	return nil
}

// Read is unsupported; a Buffer is write/replay-only.
func (*Buffer) Read([]byte) (int, error) {
	return 0, ErrNotSupported
}

// Seek is unsupported; a Buffer is write/replay-only.
func (*Buffer) Seek(int64, int) (int64, error) {
	return 0, ErrNotSupported
}

// CloseContext is Close with an upfront cancellation check. A cancelled
// CloseContext does not close the Buffer; closing and removing the spill
// file is a single operation with no streaming phase to interrupt.
func (b *Buffer) CloseContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.Close()
}

// Close releases the memory pages back to their pool and deletes the spill
// file if one was created. Close is idempotent; operations after Close
// return ErrClosed.
func (b *Buffer) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.config.Metrics.recordRelease(b.memory.Len())
	b.memory.Release()
	if b.file != nil {
		file := b.file
		b.file = nil
		if err := file.Close(); err != nil {
			return newFileError(err, "removing spill file", file.Name())
		}
	}
	return nil
}
