package yolov3

// Workspace is the scratch memory of one Forward call. It is resized before
// every scale and overwritten, so its contents never carry over between
// scales or calls; reusing one only saves allocations.
//
// A Workspace must not be shared by concurrent calls.
type Workspace struct {
	swap   []float32
	scores []float32
}

// NewWorkspace returns an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{}
}

// reshape returns the swap buffer sized to n values.
func (w *Workspace) reshape(n int) []float32 {
	if cap(w.swap) < n {
		w.swap = make([]float32, n)
	}
	w.swap = w.swap[:n]
	return w.swap
}

// classScores returns the per-anchor class score buffer sized to n values.
func (w *Workspace) classScores(n int) []float32 {
	if cap(w.scores) < n {
		w.scores = make([]float32, n)
	}
	w.scores = w.scores[:n]
	return w.scores
}
