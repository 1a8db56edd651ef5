// README: Turn Controller; orchestrates extract, classify, retrieve, score, paginate, compose.
package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"voxguide/internal/ai"
	"voxguide/internal/modules/dialogue"
	"voxguide/internal/modules/extract"
	"voxguide/internal/modules/intent"
	"voxguide/internal/modules/ranking"
	"voxguide/internal/modules/usage"
	"voxguide/internal/retrieval"
	"voxguide/internal/types"
)

// Geocoder resolves a city name to coordinates for distance scoring.
// Optional collaborator; scoring works without location signal.
type Geocoder interface {
	GeocodeCity(ctx context.Context, city string) (types.Point, error)
}

// Recorder accounts for composed replies and persists transcripts.
// Optional collaborator; the conversation works without it.
type Recorder interface {
	UseCall(ctx context.Context, caller string) error
	RecordTurn(ctx context.Context, callID types.ID, caller, query, response, kind string) error
}

// SnapshotStore persists dialogue state between turns so a call survives
// a process restart. Optional collaborator.
type SnapshotStore interface {
	Save(ctx context.Context, st *dialogue.State) error
	Load(ctx context.Context, callID types.ID) (*dialogue.State, bool, error)
	Delete(ctx context.Context, callID types.ID) error
}

// Reply is the structured instruction a turn produces for the transport
// layer: what to say, and whether the call should end after saying it.
type Reply struct {
	Text    string `json:"text"`
	EndCall bool   `json:"end_call"`
	// Kind echoes the classified dialogue action for logging and transcripts.
	Kind string `json:"kind"`
}

// Controller runs one conversation turn end to end. One Controller
// serves all calls; per-call state lives in the session Manager.
type Controller struct {
	sessions  *dialogue.Manager
	snapshots SnapshotStore // nil disables persistence
	retriever retrieval.Retriever
	composer  ai.Composer
	geocoder  Geocoder // nil disables distance signal
	recorder  Recorder // nil disables accounting
	topK      int
}

// NewController wires the turn pipeline. retriever and composer are
// required; snapshots, geocoder and recorder may be nil.
func NewController(sessions *dialogue.Manager, snapshots SnapshotStore, retriever retrieval.Retriever, composer ai.Composer, geocoder Geocoder, recorder Recorder, topK int) *Controller {
	return &Controller{
		sessions:  sessions,
		snapshots: snapshots,
		retriever: retriever,
		composer:  composer,
		geocoder:  geocoder,
		recorder:  recorder,
		topK:      topK,
	}
}

// BeginCall resets the call's session and returns the opening greeting.
// guideName is the synthesizer voice picked for this call.
func (c *Controller) BeginCall(ctx context.Context, callID types.ID, guideName string) (Reply, error) {
	if _, err := c.sessions.Begin(callID); err != nil {
		return Reply{}, err
	}
	if c.snapshots != nil {
		if err := c.snapshots.Delete(ctx, callID); err != nil {
			log.Printf("service: drop stale snapshot for %s: %v", callID, err)
		}
	}
	return Reply{Text: greetingLine(guideName), Kind: "CALL_START"}, nil
}

// EndCall discards the call's state and snapshot.
func (c *Controller) EndCall(ctx context.Context, callID types.ID) {
	c.sessions.End(callID)
	if c.snapshots != nil {
		if err := c.snapshots.Delete(ctx, callID); err != nil {
			log.Printf("service: delete snapshot for %s: %v", callID, err)
		}
	}
}

// HandleTurn processes one utterance for a call and returns the reply
// instruction. caller identifies the phone number for usage accounting.
func (c *Controller) HandleTurn(ctx context.Context, callID types.ID, caller, utterance string) (Reply, error) {
	if c.recorder != nil && caller != "" {
		if err := c.recorder.UseCall(ctx, caller); err != nil {
			if errors.Is(err, usage.ErrQuotaExhausted) {
				return Reply{Text: quotaLine(), EndCall: true, Kind: "QUOTA_EXHAUSTED"}, nil
			}
			// Accounting trouble never blocks the conversation.
			log.Printf("service: usage accounting for %s: %v", caller, err)
		}
	}

	// A turn for a call the registry does not know may be the first turn
	// after a restart; the snapshot has the caller's accumulated state.
	if c.snapshots != nil && !c.sessions.Has(callID) {
		if st, found, err := c.snapshots.Load(ctx, callID); err != nil {
			log.Printf("service: load snapshot %s: %v", callID, err)
		} else if found {
			if err := c.sessions.Adopt(st); err != nil {
				log.Printf("service: adopt snapshot %s: %v", callID, err)
			}
		}
	}

	var reply Reply
	err := c.sessions.WithState(callID, func(st *dialogue.State) {
		reply = c.handle(ctx, st, utterance)
		st.AppendTurn(utterance, reply.Text, reply.Kind)
		if c.snapshots != nil {
			if err := c.snapshots.Save(ctx, st); err != nil {
				log.Printf("service: snapshot %s: %v", callID, err)
			}
		}
	})
	if err != nil {
		return Reply{}, err
	}

	if c.recorder != nil && caller != "" {
		if err := c.recorder.RecordTurn(ctx, callID, caller, utterance, reply.Text, reply.Kind); err != nil {
			log.Printf("service: record turn for %s: %v", callID, err)
		}
	}
	return reply, nil
}

func (c *Controller) handle(ctx context.Context, st *dialogue.State, utterance string) Reply {
	entities := extract.Extract(utterance, st.CurrentCity, st.CurrentCategory)
	st.MergeEntities(entities)

	it := intent.Classify(utterance, st.IntentContext())
	if it.Degraded {
		log.Printf("service: degraded classification for call %s", st.CallID)
	}
	kind := string(it.Kind)

	switch it.Kind {
	case intent.KindGreeting:
		return c.greet(st, kind)

	case intent.KindFarewell:
		st.Phase = dialogue.PhaseFarewell
		return Reply{Text: farewellLine(), EndCall: true, Kind: kind}

	case intent.KindAffirmation:
		switch it.Sub {
		case intent.SubMoreDetail:
			if st.CurrentPlaceID != "" {
				st.MarkPreferred(st.CurrentPlaceID)
			}
			return c.describePlace(ctx, st, st.CurrentPlaceID, utterance, kind)
		case intent.SubMoreResults:
			return c.moreResults(ctx, st, utterance, kind)
		case intent.SubRepeatSearch:
			return c.search(ctx, st, utterance, kind)
		}
		return Reply{Text: "Great! What would you like to know?", Kind: kind}

	case intent.KindNegation:
		if st.CurrentPlaceID != "" {
			st.MarkRejected(st.CurrentPlaceID)
			st.CurrentPlaceID = ""
		}
		return c.moreResults(ctx, st, utterance, kind)

	case intent.KindPlaceReference:
		id, ok := st.ResolveReference(utterance)
		if !ok {
			return Reply{Text: clarifyLine(), Kind: kind}
		}
		return c.describePlace(ctx, st, id, utterance, kind)

	case intent.KindAspectQuery:
		return c.answerAspect(ctx, st, it.Aspect, utterance, kind)

	case intent.KindGetAlternatives:
		return c.moreResults(ctx, st, utterance, kind)
	}

	return c.search(ctx, st, utterance, kind)
}

func (c *Controller) greet(st *dialogue.State, kind string) Reply {
	switch {
	case st.CurrentCity == "":
		return Reply{Text: askCityLine(), Kind: kind}
	case st.CurrentCategory == "":
		return Reply{Text: locationConfirmation(st.CurrentCity), Kind: kind}
	}
	return Reply{Text: "Hi again! What else can I find for you?", Kind: kind}
}

// search runs the full retrieve/score/paginate/compose pipeline. On
// retrieval failure the results state is left untouched so the caller
// can simply try again.
func (c *Controller) search(ctx context.Context, st *dialogue.State, utterance, kind string) Reply {
	if st.CurrentCity == "" {
		return Reply{Text: askCityLine(), Kind: kind}
	}
	st.Phase = dialogue.PhaseSearching

	candidates, err := c.retriever.Retrieve(ctx, retrieval.Request{
		Text:     searchText(st),
		City:     st.CurrentCity,
		Category: st.CurrentCategory,
		Exclude:  st.ExcludedIDs(),
		TopK:     c.topK,
	})
	if err != nil {
		log.Printf("service: retrieval for call %s: %v", st.CallID, err)
		return Reply{Text: retrievalApology(), Kind: kind}
	}
	if len(candidates) == 0 {
		return Reply{Text: broadenLine(st.Preferences), Kind: kind}
	}

	mode := sortModeFor(utterance)
	q := ranking.Query{
		Text: utterance,
		Entities: extract.Entities{
			City:     st.CurrentCity,
			Category: st.CurrentCategory,
			Prefs:    st.Preferences,
		},
		Sort: mode,
	}
	if c.geocoder != nil {
		if pt, err := c.geocoder.GeocodeCity(ctx, st.CurrentCity); err == nil {
			q.CallerCoords = &pt
		} else {
			log.Printf("service: geocode %q: %v", st.CurrentCity, err)
		}
	}

	results := ranking.Score(candidates, q)
	if len(results) == 0 {
		return Reply{Text: broadenLine(st.Preferences), Kind: kind}
	}

	// An explicit ordering request bypasses the variety shuffle; the
	// caller asked for a ranking, not a sampling.
	var front []ranking.Result
	if mode == ranking.SortBestMatch {
		front = st.AddSearchResults(results, utterance)
	} else {
		front = st.AddOrderedResults(results, utterance)
	}
	text := searchAckLine() + " " + quickLine(front[0]) + " " + c.composeResults(ctx, st, utterance, front)
	return Reply{Text: text, Kind: kind}
}

// moreResults narrates the next pagination batch, or admits exhaustion.
func (c *Controller) moreResults(ctx context.Context, st *dialogue.State, utterance, kind string) Reply {
	batch := st.NextBatch(3)
	if len(batch) == 0 {
		return Reply{Text: exhaustedLine(), Kind: kind}
	}
	return Reply{Text: c.composeResults(ctx, st, utterance, batch), Kind: kind}
}

func (c *Controller) describePlace(ctx context.Context, st *dialogue.State, id types.ID, utterance, kind string) Reply {
	if id == "" {
		return Reply{Text: clarifyLine(), Kind: kind}
	}
	r, ok := st.CurrentResult(id)
	if !ok {
		return Reply{Text: clarifyLine(), Kind: kind}
	}

	st.SetCurrentPlace(id, r.Metadata.Title)
	deep := st.DeepDiscussion(id)

	task := ai.TaskPlaceOverview
	if deep {
		task = ai.TaskPlaceDeep
	}
	text, err := c.composer.Compose(ctx, ai.Prompt{
		Task:        task,
		Query:       utterance,
		City:        st.CurrentCity,
		Places:      []ai.PlaceFact{placeFact(r)},
		Preferences: prefPhrases(st.Preferences),
	})
	if err != nil {
		log.Printf("service: compose place for call %s: %v", st.CallID, err)
		text = placeFallback(r, deep)
	}
	return Reply{Text: text, Kind: kind}
}

func (c *Controller) answerAspect(ctx context.Context, st *dialogue.State, aspect intent.Aspect, utterance, kind string) Reply {
	r, ok := st.CurrentResult(st.CurrentPlaceID)
	if !ok {
		return Reply{Text: clarifyLine(), Kind: kind}
	}

	text, err := c.composer.Compose(ctx, ai.Prompt{
		Task:        ai.TaskAspect,
		Query:       utterance,
		City:        st.CurrentCity,
		Places:      []ai.PlaceFact{placeFact(r)},
		Aspect:      string(aspect),
		Preferences: prefPhrases(st.Preferences),
	})
	if err != nil {
		log.Printf("service: compose aspect for call %s: %v", st.CallID, err)
		text = aspectFallback(aspect, r)
	}
	return Reply{Text: text, Kind: kind}
}

func (c *Controller) composeResults(ctx context.Context, st *dialogue.State, utterance string, results []ranking.Result) string {
	facts := make([]ai.PlaceFact, 0, len(results))
	for _, r := range results {
		facts = append(facts, placeFact(r))
	}
	text, err := c.composer.Compose(ctx, ai.Prompt{
		Task:        ai.TaskResults,
		Query:       utterance,
		City:        st.CurrentCity,
		Places:      facts,
		Preferences: prefPhrases(st.Preferences),
	})
	if err != nil {
		log.Printf("service: compose results for call %s: %v", st.CallID, err)
		return resultsFallback(st.CurrentCategory, results)
	}
	return text
}

// sortModeFor maps explicit ordering cues in the utterance to a sort
// mode. Everything else keeps the composite best-match order.
func sortModeFor(utterance string) ranking.SortMode {
	lower := strings.ToLower(utterance)
	switch {
	case strings.Contains(lower, "closest"), strings.Contains(lower, "nearest"):
		return ranking.SortDistance
	case strings.Contains(lower, "highest rated"), strings.Contains(lower, "best rated"), strings.Contains(lower, "top rated"):
		return ranking.SortRatingHigh
	case strings.Contains(lower, "cheapest"):
		return ranking.SortPriceLow
	}
	return ranking.SortBestMatch
}

// searchText builds the retrieval query from accumulated entities rather
// than the raw utterance, so follow-up searches carry earlier context.
func searchText(st *dialogue.State) string {
	var parts []string
	parts = append(parts, st.Preferences.Cuisine...)
	if st.CurrentCategory != "" && st.CurrentCategory != extract.CategoryPlace {
		parts = append(parts, string(st.CurrentCategory))
	} else {
		parts = append(parts, "places")
	}
	return strings.Join(parts, " ")
}

func placeFact(r ranking.Result) ai.PlaceFact {
	m := r.Metadata
	return ai.PlaceFact{
		Title:       m.Title,
		Category:    m.Category,
		Rating:      m.Rating,
		ReviewCount: m.ReviewCount,
		PriceLevel:  string(m.PriceLevel),
		Address:     m.Address,
		Hours:       m.Hours,
		About:       m.About,
	}
}
