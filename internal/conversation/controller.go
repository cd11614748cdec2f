package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/debot/internal/domain"
	"github.com/alexanderramin/debot/internal/intelligence"
	"github.com/alexanderramin/debot/internal/logger"
	"github.com/alexanderramin/debot/internal/recommend"
)

// Branch names the path the Controller took for one message.
type Branch string

const (
	BranchFreeChat         Branch = "free_chat"
	BranchClarifyAmbiguous Branch = "clarify_ambiguous"
	BranchClarifyNoDoubt   Branch = "clarify_no_doubt"
	BranchClarifyBroad     Branch = "clarify_broad"
	BranchRecommending     Branch = "recommending"
	BranchApology          Branch = "apology"
)

// Fixed replies used when an external service fails.
const (
	ClassifierApology = "Estou em greve. Retornarei ao trabalho assim que as condições na OpenAI forem normalizadas."
	GenericApology    = "Desculpe, não consegui responder agora. Tente novamente em instantes."
)

// Guidance notes appended as system messages before free conversation.
const (
	NoteNoDoubt   = "No doubt was found. Ask again if the user has any doubts on electric circuits."
	NoteAmbiguous = "The doubt was unclear. Ask the user to rephrase it better."
	NoteNoSubject = "It seems the student does not have a doubt. Then asks what the user wants."
	NoteTooBroad  = "It seems the subject of the doubt was too broad. Then asks the user to be more specific, using more words."
)

// Reply is the outcome of handling one user message.
type Reply struct {
	Branch   Branch
	Messages []string
	Doubt    domain.Doubt
	// Recommendations is set on the recommending branch only.
	Recommendations []recommend.Recommendation
}

// ProgressFunc receives interim texts sent before the final reply.
type ProgressFunc func(text string)

// Recorder receives per-message measurements. *metrics.Metrics implements it.
type Recorder interface {
	RecordMessage(branch string, elapsed time.Duration)
	RecordRecommendation(moduleIndex int)
	RecordFailure(service string)
}

type nopRecorder struct{}

func (nopRecorder) RecordMessage(string, time.Duration) {}
func (nopRecorder) RecordRecommendation(int)            {}
func (nopRecorder) RecordFailure(string)                {}

// ControllerDeps wires a Controller.
type ControllerDeps struct {
	Store      Store
	Classifier intelligence.DoubtClassifier
	Generator  intelligence.ReplyGenerator
	Engine     *recommend.Engine
	Logger     *logger.Logger
	Recorder   Recorder
	// Persona is the pinned first message of every new conversation.
	Persona     string
	MaxMessages int
}

// Controller runs the per-message state machine over a conversation window.
// Messages for the same conversation are handled one at a time.
type Controller struct {
	store       Store
	classifier  intelligence.DoubtClassifier
	generator   intelligence.ReplyGenerator
	engine      *recommend.Engine
	log         *logger.Logger
	recorder    Recorder
	persona     string
	maxMessages int
	locks       *keyedMutex
}

func NewController(deps ControllerDeps) *Controller {
	c := &Controller{
		store:       deps.Store,
		classifier:  deps.Classifier,
		generator:   deps.Generator,
		engine:      deps.Engine,
		log:         deps.Logger,
		recorder:    deps.Recorder,
		persona:     deps.Persona,
		maxMessages: deps.MaxMessages,
		locks:       newKeyedMutex(),
	}
	if c.store == nil {
		c.store = NewMemoryStore(DefaultTTL)
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	if c.recorder == nil {
		c.recorder = nopRecorder{}
	}
	if c.persona == "" {
		c.persona = intelligence.PersonaPrompt
	}
	if c.maxMessages <= 0 {
		c.maxMessages = DefaultMaxMessages
	}
	return c
}

// HandleMessage answers one user message in conversation id. The window is
// saved only once the reply is settled. Service failures become fallback
// replies; the returned error is reserved for store failures and
// cancellation, in which case the window is left untouched.
func (c *Controller) HandleMessage(ctx context.Context, id, text string, progress ProgressFunc) (*Reply, error) {
	start := time.Now()
	unlock := c.locks.Lock(id)
	defer unlock()

	window, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	work := window.Clone()
	work.Append(domain.UserMessage(text))

	reply, commit := c.respond(ctx, id, work, text, progress)
	if err := ctx.Err(); err != nil {
		c.log.Info("message abandoned", "conversation_id", id, "error", err)
		return nil, err
	}
	if commit {
		if err := c.store.Save(ctx, id, work.Messages()); err != nil {
			return nil, fmt.Errorf("saving conversation: %w", err)
		}
	}

	elapsed := time.Since(start)
	c.recorder.RecordMessage(string(reply.Branch), elapsed)
	c.log.Info("message handled",
		"conversation_id", id,
		"branch", reply.Branch,
		"doubt", reply.Doubt.String(),
		"replies", len(reply.Messages),
		"latency_ms", elapsed.Milliseconds(),
	)
	return reply, nil
}

// History returns the stored window of a conversation, or a fresh one.
func (c *Controller) History(ctx context.Context, id string) ([]domain.Message, error) {
	w, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return w.Messages(), nil
}

// Reset forgets a conversation.
func (c *Controller) Reset(ctx context.Context, id string) error {
	unlock := c.locks.Lock(id)
	defer unlock()
	if err := c.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("resetting conversation: %w", err)
	}
	return nil
}

func (c *Controller) load(ctx context.Context, id string) (*Window, error) {
	msgs, ok, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	if !ok {
		return NewWindow(c.persona, c.maxMessages), nil
	}
	return RestoreWindow(msgs, c.maxMessages), nil
}

// respond works on the staged window and reports whether it should be kept.
func (c *Controller) respond(ctx context.Context, id string, work *Window, text string, progress ProgressFunc) (*Reply, bool) {
	doubt, err := c.classifier.Classify(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return &Reply{Branch: BranchApology}, false
		}
		c.recorder.RecordFailure("classifier")
		c.log.Warn("doubt classification failed", "conversation_id", id, "error", err)
		work.Append(domain.AssistantMessage(ClassifierApology))
		return &Reply{Branch: BranchApology, Messages: []string{ClassifierApology}}, true
	}

	if doubt.Kind == domain.DoubtText && !doubt.HasText() {
		doubt = domain.NoDoubt()
	}
	switch doubt.Kind {
	case domain.DoubtNone:
		return c.converse(ctx, id, work, doubt, BranchFreeChat, NoteNoDoubt)
	case domain.DoubtAmbiguous:
		return c.converse(ctx, id, work, doubt, BranchClarifyAmbiguous, NoteAmbiguous)
	}

	analysis, err := c.engine.Analyze(ctx, doubt.Text)
	if err != nil {
		return c.apologize(ctx, id, doubt, "catalog", err), false
	}
	if len(analysis.Selected) == 0 {
		return c.converse(ctx, id, work, doubt, BranchClarifyNoDoubt, NoteNoSubject)
	}
	if !analysis.GatePassed {
		c.log.Debug("doubt too broad", "conversation_id", id,
			"modules", analysis.Selected, "max_hits", analysis.MaxHits)
		return c.converse(ctx, id, work, doubt, BranchClarifyBroad, NoteTooBroad)
	}

	if progress != nil {
		progress(recommend.ProgressText)
	}
	recs, failures, err := c.engine.Recommend(ctx, doubt.Text, analysis.Selected)
	if err != nil {
		return c.apologize(ctx, id, doubt, "catalog", err), false
	}
	for _, f := range failures {
		c.recorder.RecordFailure("embedder")
		c.log.Warn("module ranking failed", "conversation_id", id, "module", f.ModuleIndex, "error", f.Err)
	}
	if len(recs) == 0 {
		return c.converse(ctx, id, work, doubt, BranchClarifyBroad, NoteTooBroad)
	}

	messages := make([]string, 0, len(recs)+1)
	messages = append(messages, recommend.AnnouncementText)
	for _, r := range recs {
		messages = append(messages, r.Text())
		c.recorder.RecordRecommendation(r.ModuleIndex)
	}
	work.Append(domain.AssistantMessage(messages[len(messages)-1]))
	return &Reply{
		Branch:          BranchRecommending,
		Messages:        messages,
		Doubt:           doubt,
		Recommendations: recs,
	}, true
}

// converse appends a guidance note and lets the generator answer over the
// whole window.
func (c *Controller) converse(ctx context.Context, id string, work *Window, doubt domain.Doubt, branch Branch, note string) (*Reply, bool) {
	work.Append(domain.SystemMessage(note))
	text, err := c.generator.Generate(ctx, work.Messages())
	if err != nil {
		return c.apologize(ctx, id, doubt, "generator", err), false
	}
	work.Append(domain.AssistantMessage(text))
	return &Reply{Branch: branch, Messages: []string{text}, Doubt: doubt}, true
}

func (c *Controller) apologize(ctx context.Context, id string, doubt domain.Doubt, service string, err error) *Reply {
	if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
		c.recorder.RecordFailure(service)
		c.log.Error("reply failed", "conversation_id", id, "service", service, "error", err)
	}
	return &Reply{Branch: BranchApology, Messages: []string{GenericApology}, Doubt: doubt}
}
