package gpu

import "fmt"

// RecordedBuffer is a buffer held by a Recorder.
type RecordedBuffer struct {
	VAO         Handle
	Attrib      Attrib
	VertexCount int
	Components  int
	Data        []float32
}

// DrawCall is one recorded DrawTriangles call.
type DrawCall struct {
	VAO         Handle
	VertexCount int
}

// Recorder is a Device that keeps everything in memory. It backs headless
// tools and tests.
type Recorder struct {
	// FailUpload makes the n-th upload (1-based) fail. Zero disables.
	FailUpload int

	next    Handle
	uploads int

	vertexArrays map[Handle]bool
	buffers      map[Handle]RecordedBuffer
	draws        []DrawCall
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		vertexArrays: make(map[Handle]bool),
		buffers:      make(map[Handle]RecordedBuffer),
	}
}

func (r *Recorder) alloc() Handle {
	r.next++
	return r.next
}

// CreateVertexArray allocates a vertex array handle.
func (r *Recorder) CreateVertexArray() (Handle, error) {
	h := r.alloc()
	r.vertexArrays[h] = true
	return h, nil
}

// UploadVertexBuffer stores a copy of data.
func (r *Recorder) UploadVertexBuffer(vao Handle, attrib Attrib, data []float32, vertexCount, components int) (Handle, error) {
	if err := checkLayout(data, vertexCount, components); err != nil {
		return 0, err
	}
	if !r.vertexArrays[vao] {
		return 0, fmt.Errorf("%w: unknown vertex array %d", ErrUpload, vao)
	}
	r.uploads++
	if r.FailUpload > 0 && r.uploads == r.FailUpload {
		return 0, fmt.Errorf("%w: injected failure on upload %d", ErrUpload, r.uploads)
	}

	h := r.alloc()
	r.buffers[h] = RecordedBuffer{
		VAO:         vao,
		Attrib:      attrib,
		VertexCount: vertexCount,
		Components:  components,
		Data:        append([]float32(nil), data...),
	}
	return h, nil
}

// DrawTriangles records a draw call.
func (r *Recorder) DrawTriangles(vao Handle, vertexCount int) {
	r.draws = append(r.draws, DrawCall{VAO: vao, VertexCount: vertexCount})
}

// DeleteBuffer forgets a buffer. Deleting an unknown handle panics so double
// releases surface in tests.
func (r *Recorder) DeleteBuffer(h Handle) {
	if h == 0 {
		return
	}
	if _, ok := r.buffers[h]; !ok {
		panic(fmt.Sprintf("gpu: delete of unknown buffer %d", h))
	}
	delete(r.buffers, h)
}

// DeleteVertexArray forgets a vertex array.
func (r *Recorder) DeleteVertexArray(h Handle) {
	if h == 0 {
		return
	}
	if !r.vertexArrays[h] {
		panic(fmt.Sprintf("gpu: delete of unknown vertex array %d", h))
	}
	delete(r.vertexArrays, h)
}

// Buffer returns a live buffer.
func (r *Recorder) Buffer(h Handle) (RecordedBuffer, bool) {
	b, ok := r.buffers[h]
	return b, ok
}

// Live returns the number of vertex arrays and buffers not yet deleted.
func (r *Recorder) Live() (vertexArrays, buffers int) {
	return len(r.vertexArrays), len(r.buffers)
}

// Uploads returns the number of upload attempts so far.
func (r *Recorder) Uploads() int {
	return r.uploads
}

// Draws returns the recorded draw calls.
func (r *Recorder) Draws() []DrawCall {
	return r.draws
}

// ResetDraws clears recorded draw calls, keeping allocated storage.
func (r *Recorder) ResetDraws() {
	r.draws = r.draws[:0]
}
