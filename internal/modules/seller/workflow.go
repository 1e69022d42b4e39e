package seller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/georgemunganga/printa-storefront/internal/apiclient"
	"github.com/georgemunganga/printa-storefront/internal/modules/product"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// State is the submission state of the seller form.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

var (
	ErrSubmissionInFlight = errors.New("a product submission is already in flight")
	ErrSubmitFailed       = errors.New("submit product")
)

// ProductCreator is the part of the products resource the workflow needs.
type ProductCreator interface {
	Create(ctx context.Context, req product.CreateProductRequest) (*product.Product, error)
}

type Options struct {
	// Timeout bounds each submission request; zero means no deadline.
	Timeout       time.Duration
	MaxImageBytes int64
	Notifier      Notifier
	Logger        *zap.Logger
	// OnState observes every transition: submitting, then succeeded or
	// failed, then idle. It is called without the workflow lock held.
	OnState func(State)
}

// Workflow owns one seller session: the draft form, the staged image, the
// submission guard and the list of products created in this session.
type Workflow struct {
	creator  ProductCreator
	timeout  time.Duration
	maxImage int64
	notifier Notifier
	log      *zap.Logger
	onState  func(State)

	mu       sync.Mutex
	draft    Draft
	file     *ImageFile
	preview  string
	gen      uint64 // bumped whenever the staged file changes
	inflight string // submission marker; "" when idle
	products []*product.Product
}

func NewWorkflow(creator ProductCreator, opts Options) *Workflow {
	w := &Workflow{
		creator:  creator,
		timeout:  opts.Timeout,
		maxImage: opts.MaxImageBytes,
		notifier: opts.Notifier,
		log:      opts.Logger,
		onState:  opts.OnState,
	}
	if w.notifier == nil {
		w.notifier = NewFeed(0)
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}
	return w
}

func (w *Workflow) SetField(name, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.SetField(name, value)
}

// SetFields applies all of fields or, when any name is unknown, none.
func (w *Workflow) SetFields(fields map[string]string) error {
	for name := range fields {
		if !KnownField(name) {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for name, value := range fields {
		_ = w.draft.SetField(name, value)
	}
	return nil
}

func (w *Workflow) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

func (w *Workflow) CommissionPreview() string {
	return w.Draft().CommissionPreview()
}

// StagedFile returns a copy of the staged file, or nil.
func (w *Workflow) StagedFile() *ImageFile {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	f := *w.file
	f.Data = append([]byte(nil), w.file.Data...)
	return &f
}

// Preview is the data URL of the staged image, "" until it has been read.
func (w *Workflow) Preview() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.preview
}

func (w *Workflow) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inflight != ""
}

func (w *Workflow) State() State {
	if w.Submitting() {
		return StateSubmitting
	}
	return StateIdle
}

// Products returns the products created in this session, oldest first.
func (w *Workflow) Products() []*product.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*product.Product(nil), w.products...)
}

// StageImage stages the first of files; the rest are ignored. The file is
// staged immediately with no preview, and its preview is read in the
// background. The
// returned channel closes once the preview read has finished. A rejected
// file leaves the current staging untouched.
func (w *Workflow) StageImage(ctx context.Context, files []ImageFile) (<-chan struct{}, error) {
	done := make(chan struct{})
	if len(files) == 0 {
		close(done)
		return done, nil
	}
	f := files[0]
	if len(files) > 1 {
		w.log.Debug("extra image files discarded", zap.Int("offered", len(files)))
	}

	mimeType, err := checkImage(f, w.maxImage)
	if err != nil {
		w.log.Warn("image rejected", zap.String("file", f.Name), zap.Error(err))
		msg := MsgImageUnsupported
		if errors.Is(err, ErrImageTooLarge) {
			msg = MsgImageTooLarge
		}
		w.notify(ctx, LevelError, msg)
		return nil, err
	}

	staged := ImageFile{
		Name:        f.Name,
		ContentType: mimeType,
		Data:        append([]byte(nil), f.Data...),
	}

	w.mu.Lock()
	w.gen++
	gen := w.gen
	w.file = &staged
	w.preview = ""
	w.mu.Unlock()

	go func() {
		defer close(done)
		preview := dataURL(staged.ContentType, staged.Data)
		w.mu.Lock()
		if w.gen == gen {
			w.preview = preview
		}
		w.mu.Unlock()
	}()
	return done, nil
}

// Submit sends the draft and staged image as a new listing. At most one
// submission runs at a time; a concurrent call fails fast with
// ErrSubmissionInFlight. On success the product is appended to the session
// list and the form is cleared. On failure the form is left as it was.
func (w *Workflow) Submit(ctx context.Context) (*product.Product, error) {
	w.mu.Lock()
	if w.inflight != "" {
		w.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	marker := uuid.NewString()
	w.inflight = marker
	draft := w.draft
	file := w.file
	w.mu.Unlock()

	log := w.log.With(zap.String("attempt", ulid.Make().String()))
	w.emit(StateSubmitting)
	defer func() {
		w.mu.Lock()
		if w.inflight == marker {
			w.inflight = ""
		}
		w.mu.Unlock()
		w.emit(StateIdle)
	}()

	req := product.CreateProductRequest{
		Name:        draft.Name,
		Description: draft.Description,
		Price:       draft.Price,
	}
	if file != nil {
		req.Image = &product.Image{FileName: file.Name, ContentType: file.ContentType, Data: file.Data}
	}

	reqCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	p, err := w.creator.Create(reqCtx, req)
	if err != nil {
		log.Error("product submission failed",
			zap.String("kind", string(apiclient.KindOf(err))),
			zap.Error(err),
		)
		w.emit(StateFailed)
		w.notify(ctx, LevelError, MsgSubmitFailed)
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	w.mu.Lock()
	w.products = append(w.products, p)
	w.draft.Reset()
	w.file = nil
	w.preview = ""
	w.gen++
	w.mu.Unlock()

	log.Info("product listed", zap.String("product_id", p.ID))
	w.emit(StateSucceeded)
	w.notify(ctx, LevelSuccess, MsgListed)
	return p, nil
}

func (w *Workflow) emit(s State) {
	if w.onState != nil {
		w.onState(s)
	}
}

// notify never fails the caller: delivery errors and panics are logged.
func (w *Workflow) notify(ctx context.Context, level Level, msg string) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("notifier panicked", zap.Any("panic", r))
		}
	}()
	if err := w.notifier.Notify(ctx, newNotification(level, msg)); err != nil {
		w.log.Warn("notification not delivered", zap.String("message", msg), zap.Error(err))
	}
}
