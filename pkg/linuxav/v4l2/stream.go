//go:build linux

package v4l2

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"unsafe"
)

// selectTimeoutMs bounds each readiness wait so context cancellation is
// observed even when the device stops producing frames.
const selectTimeoutMs = 200

// Frame is one captured frame. Data is an owned copy; the driver buffer
// is requeued before Capture returns.
type Frame struct {
	Data     []byte
	Sequence uint32
}

// Stream drives memory-mapped capture on an open device. It owns the
// mmap buffers but not the file descriptor.
type Stream struct {
	fd      int
	buffers [][]byte
	started bool
}

// NewStream requests and maps driver buffers for streaming I/O.
func NewStream(fd int, bufferCount uint32) (*Stream, error) {
	req := v4l2_requestbuffers{
		count:  bufferCount,
		typ:    V4L2_BUF_TYPE_VIDEO_CAPTURE,
		memory: V4L2_MEMORY_MMAP,
	}
	if err := ioctl(fd, VIDIOC_REQBUFS, unsafe.Pointer(&req)); err != nil {
		return nil, fmt.Errorf("failed to request buffers: %w", err)
	}
	if req.count == 0 {
		return nil, fmt.Errorf("driver granted no buffers")
	}

	s := &Stream{fd: fd}

	for i := uint32(0); i < req.count; i++ {
		buf := v4l2_buffer{
			index:  i,
			typ:    V4L2_BUF_TYPE_VIDEO_CAPTURE,
			memory: V4L2_MEMORY_MMAP,
		}
		if err := ioctl(fd, VIDIOC_QUERYBUF, unsafe.Pointer(&buf)); err != nil {
			s.unmap()
			return nil, fmt.Errorf("failed to query buffer %d: %w", i, err)
		}

		data, err := syscall.Mmap(fd, int64(buf.offset), int(buf.length),
			syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
		if err != nil {
			s.unmap()
			return nil, fmt.Errorf("failed to mmap buffer %d: %w", i, err)
		}
		s.buffers = append(s.buffers, data)

		if err := ioctl(fd, VIDIOC_QBUF, unsafe.Pointer(&buf)); err != nil {
			s.unmap()
			return nil, fmt.Errorf("failed to queue buffer %d: %w", i, err)
		}
	}

	return s, nil
}

// Start begins frame production.
func (s *Stream) Start() error {
	typ := int32(V4L2_BUF_TYPE_VIDEO_CAPTURE)
	if err := ioctl(s.fd, VIDIOC_STREAMON, unsafe.Pointer(&typ)); err != nil {
		return fmt.Errorf("failed to start streaming: %w", err)
	}
	s.started = true
	return nil
}

// Capture blocks until the next frame arrives, the context is
// cancelled, or the device errors. The returned frame data is a copy.
func (s *Stream) Capture(ctx context.Context) (Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Frame{}, err
		}

		var readFds syscall.FdSet
		fdSet(s.fd, &readFds)
		tv := makeTimeval(selectTimeoutMs)

		n, err := syscall.Select(s.fd+1, &readFds, nil, nil, tv)
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			return Frame{}, fmt.Errorf("failed to wait for frame: %w", err)
		}
		if n == 0 {
			continue // Timeout slice, re-check context
		}

		buf := v4l2_buffer{
			typ:    V4L2_BUF_TYPE_VIDEO_CAPTURE,
			memory: V4L2_MEMORY_MMAP,
		}
		if err := ioctl(s.fd, VIDIOC_DQBUF, unsafe.Pointer(&buf)); err != nil {
			if errors.Is(err, syscall.EAGAIN) {
				continue
			}
			return Frame{}, fmt.Errorf("failed to dequeue buffer: %w", err)
		}

		used := int(buf.bytesused)
		if used > len(s.buffers[buf.index]) {
			used = len(s.buffers[buf.index])
		}
		data := make([]byte, used)
		copy(data, s.buffers[buf.index][:used])
		frame := Frame{Data: data, Sequence: buf.sequence}

		if err := ioctl(s.fd, VIDIOC_QBUF, unsafe.Pointer(&buf)); err != nil {
			return Frame{}, fmt.Errorf("failed to requeue buffer: %w", err)
		}

		return frame, nil
	}
}

// Stop halts frame production. Queued buffers are dropped by the driver.
func (s *Stream) Stop() error {
	if !s.started {
		return nil
	}
	typ := int32(V4L2_BUF_TYPE_VIDEO_CAPTURE)
	if err := ioctl(s.fd, VIDIOC_STREAMOFF, unsafe.Pointer(&typ)); err != nil {
		return fmt.Errorf("failed to stop streaming: %w", err)
	}
	s.started = false
	return nil
}

// Close stops streaming, unmaps the buffers, and releases them back to
// the driver. The file descriptor stays open for the caller.
func (s *Stream) Close() error {
	err := s.Stop()
	s.unmap()

	req := v4l2_requestbuffers{
		count:  0,
		typ:    V4L2_BUF_TYPE_VIDEO_CAPTURE,
		memory: V4L2_MEMORY_MMAP,
	}
	if reqErr := ioctl(s.fd, VIDIOC_REQBUFS, unsafe.Pointer(&req)); reqErr != nil && err == nil {
		err = fmt.Errorf("failed to release buffers: %w", reqErr)
	}
	return err
}

func (s *Stream) unmap() {
	for _, b := range s.buffers {
		_ = syscall.Munmap(b)
	}
	s.buffers = nil
}

// fdSet marks fd in set, handling the per-arch Bits element width.
func fdSet(fd int, set *syscall.FdSet) {
	bits := 8 * int(unsafe.Sizeof(set.Bits[0]))
	set.Bits[fd/bits] |= 1 << (uint(fd) % uint(bits))
}
