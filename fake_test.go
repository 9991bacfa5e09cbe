package mandelbrot

import (
	"sync"

	"github.com/gogpu/mandelbrot/compute"
	"github.com/gogpu/mandelbrot/compute/software"
	"github.com/gogpu/mandelbrot/kernel"
)

// fakeDevice wraps a software device, counting releases and injecting
// failures.
type fakeDevice struct {
	inner *software.Device

	mu sync.Mutex

	failPipeline error
	failQueue    error
	failImage    error
	failBuffer   error
	failSubmit   error
	failExecute  error

	// hold, when set, delays completion until it is closed.
	hold chan struct{}
	// submitted is signaled after each successful submission.
	submitted chan struct{}

	released         int
	pipelineReleased int
	queueReleased    int
	imagesCreated    int
	imagesReleased   int
	buffersReleased  int
	lastDispatch     compute.Dispatch
	flushes          []flush
}

type flush struct {
	label          string
	offset, length int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{inner: software.New(2), submitted: make(chan struct{}, 16)}
}

func (d *fakeDevice) Name() string { return "fake" }

func (d *fakeDevice) NewPipeline(m *kernel.Module, fn kernel.Function) (compute.Pipeline, error) {
	if d.failPipeline != nil {
		return nil, d.failPipeline
	}
	p, err := d.inner.NewPipeline(m, fn)
	if err != nil {
		return nil, err
	}
	return &fakePipeline{Pipeline: p, device: d}, nil
}

func (d *fakeDevice) NewQueue(label string) (compute.Queue, error) {
	if d.failQueue != nil {
		return nil, d.failQueue
	}
	q, err := d.inner.NewQueue(label)
	if err != nil {
		return nil, err
	}
	return &fakeQueue{Queue: q, device: d}, nil
}

func (d *fakeDevice) NewImage(width, height int) (compute.Image, error) {
	if d.failImage != nil {
		return nil, d.failImage
	}
	img, err := d.inner.NewImage(width, height)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.imagesCreated++
	d.mu.Unlock()
	return &fakeImage{Image: img, device: d}, nil
}

func (d *fakeDevice) NewBuffer(label string, size int) (compute.Buffer, error) {
	if d.failBuffer != nil {
		return nil, d.failBuffer
	}
	b, err := d.inner.NewBuffer(label, size)
	if err != nil {
		return nil, err
	}
	return &fakeBuffer{Buffer: b, device: d, label: label}, nil
}

func (d *fakeDevice) Release() {
	d.mu.Lock()
	d.released++
	d.mu.Unlock()
	d.inner.Release()
}

func (d *fakeDevice) count(field *int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return *field
}

type fakePipeline struct {
	compute.Pipeline
	device *fakeDevice
}

func (p *fakePipeline) Release() {
	p.device.mu.Lock()
	p.device.pipelineReleased++
	p.device.mu.Unlock()
	p.Pipeline.Release()
}

type fakeImage struct {
	compute.Image
	device   *fakeDevice
	released bool
}

func (i *fakeImage) Release() {
	i.device.mu.Lock()
	if !i.released {
		i.device.imagesReleased++
	}
	i.released = true
	i.device.mu.Unlock()
	i.Image.Release()
}

type fakeBuffer struct {
	compute.Buffer
	device *fakeDevice
	label  string
}

func (b *fakeBuffer) DidModifyRange(offset, length int) error {
	b.device.mu.Lock()
	b.device.flushes = append(b.device.flushes, flush{label: b.label, offset: offset, length: length})
	b.device.mu.Unlock()
	return b.Buffer.DidModifyRange(offset, length)
}

func (b *fakeBuffer) Release() {
	b.device.mu.Lock()
	b.device.buffersReleased++
	b.device.mu.Unlock()
	b.Buffer.Release()
}

type fakeQueue struct {
	compute.Queue
	device *fakeDevice
}

func (q *fakeQueue) Release() {
	q.device.mu.Lock()
	q.device.queueReleased++
	q.device.mu.Unlock()
	q.Queue.Release()
}

// Submit unwraps the fake resources and forwards to the software queue.
func (q *fakeQueue) Submit(d *compute.Dispatch, completed func(error)) error {
	if q.device.failSubmit != nil {
		return q.device.failSubmit
	}
	q.device.mu.Lock()
	q.device.lastDispatch = *d
	q.device.mu.Unlock()

	inner := &compute.Dispatch{
		Pipeline:   d.Pipeline.(*fakePipeline).Pipeline,
		Image:      d.Image.(*fakeImage).Image,
		Position:   d.Position.(*fakeBuffer).Buffer,
		Iterations: d.Iterations.(*fakeBuffer).Buffer,
		Groups:     d.Groups,
		GroupSize:  d.GroupSize,
	}
	failExecute, hold := q.device.failExecute, q.device.hold
	err := q.Queue.Submit(inner, func(err error) {
		if hold != nil {
			<-hold
		}
		if failExecute != nil {
			err = failExecute
		}
		completed(err)
	})
	if err == nil {
		select {
		case q.device.submitted <- struct{}{}:
		default:
		}
	}
	return err
}
