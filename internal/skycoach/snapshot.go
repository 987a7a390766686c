package skycoach

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/lukman83/boostgg-scrap/internal/dom"
	"github.com/lukman83/boostgg-scrap/internal/models"
	"github.com/lukman83/boostgg-scrap/internal/platform"
)

const (
	defaultTriggerLabel     = "Difficulty"
	defaultStabilizeTimeout = 4 * time.Second
	defaultPollInterval     = 150 * time.Millisecond
)

// Extractor runs the snapshot/diff extraction over one page's options
// container. It is safe to share across pages: all per-run state lives in a
// run context created by Extract, never on the Extractor itself.
//
// The loop is Baseline → for each trigger value: select → await stable →
// rescan → diff. Naively re-scraping after every interaction would duplicate
// every group the interaction did not affect; instead each group's semantic
// signature is remembered and only groups whose signature changed are
// emitted, attached to the trigger choice that revealed them.
type Extractor struct {
	Writer       *Writer
	TriggerLabel string // label of the radio axis that reveals other groups

	// ReattachIdentical re-emits a revealed group under every trigger choice
	// that produces it, even when a previous choice revealed identical
	// content. Off by default: identical sub-schemas are recorded once.
	ReattachIdentical bool

	StabilizeTimeout time.Duration
	PollInterval     time.Duration
}

// run is the per-extraction state: remembered signatures plus collected
// diagnostics. One run per page, so concurrent extractions never cross-talk.
type run struct {
	sigs        map[sigKey]string
	baseline    map[sigKey]string
	diagnostics []string
}

type sigKey struct {
	kind  models.Kind
	label string
}

func (r *run) diag(ctx context.Context, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.diagnostics = append(r.diagnostics, msg)
	platform.ReportProgress(ctx, msg)
}

// Extract builds the option-row batch for the page rooted at root. All
// failure modes short of a lost page are non-fatal: unknown groups are
// dropped, failed interactions skip one trigger value, a missing container
// yields an empty batch. Every such condition lands in the returned
// diagnostics.
func (e *Extractor) Extract(ctx context.Context, root dom.Node, serviceID int64) ([]models.OptionRow, []string, error) {
	rc := &run{
		sigs:     make(map[sigKey]string),
		baseline: make(map[sigKey]string),
	}
	var rows []models.OptionRow
	order := 1

	container, ok := root.First(selOptionsContainer)
	if !ok {
		rc.diag(ctx, "no options container on page (service %d)", serviceID)
		return rows, rc.diagnostics, nil
	}

	// Baseline: everything visible before any interaction is a top-level
	// axis. The trigger group is located while writing it.
	groups := scanGroups(container)
	var trigger *Group
	var triggerRowID int64
	for i := range groups {
		g := groups[i]
		key := sigKey{g.Kind, labelKey(g.Label)}
		rc.sigs[key] = g.Signature
		rc.baseline[key] = g.Signature

		rowID, err := e.Writer.Write(g, serviceID, nil, &order, &rows)
		if err != nil {
			rc.diag(ctx, "dropping unclassifiable group %q", g.Label)
			continue
		}
		if trigger == nil && g.Kind == models.KindRadio && e.isTrigger(g.Label) {
			trigger = &groups[i]
			triggerRowID = rowID
		}
	}

	if trigger == nil {
		return rows, rc.diagnostics, nil
	}

	// Choice value → extraction row id of that choice, so revealed groups
	// can hang off the specific selection that produced them.
	choiceRows := make(map[string]int64)
	for _, r := range rows {
		if r.ParentOptionID != nil && *r.ParentOptionID == triggerRowID && r.OptionValue != nil {
			choiceRows[*r.OptionValue] = r.OptionID
		}
	}

	for _, value := range triggerValues(trigger.Node) {
		if err := ctx.Err(); err != nil {
			return rows, rc.diagnostics, err
		}
		parentRowID, ok := choiceRows[value]
		if !ok {
			continue
		}

		prev := contentHash(container.HTML())

		input, ok := trigger.Node.First(fmt.Sprintf("%s input[type='radio'][value=%q]", selRadioCluster, value))
		if !ok {
			rc.diag(ctx, "trigger input for value %q not found, skipping", value)
			continue
		}
		if err := input.Click(); err != nil {
			rc.diag(ctx, "selecting trigger value %q failed: %v", value, err)
			continue
		}

		e.awaitStable(ctx, container, prev)

		for _, g := range scanGroups(container) {
			if g.Kind == models.KindRadio && e.isTrigger(g.Label) {
				continue
			}
			key := sigKey{g.Kind, labelKey(g.Label)}
			last, seen := rc.sigs[key]
			if e.ReattachIdentical {
				// compare against the pre-interaction state only, so a
				// later choice revealing identical content still emits
				last, seen = rc.baseline[key]
			}
			if seen && last == g.Signature {
				continue
			}
			rc.sigs[key] = g.Signature

			if _, err := e.Writer.Write(g, serviceID, &parentRowID, &order, &rows); err != nil {
				rc.diag(ctx, "dropping unclassifiable revealed group %q under trigger value %q", g.Label, value)
			}
		}
	}

	return rows, rc.diagnostics, nil
}

// awaitStable polls the container's content hash until it differs from prev
// or the timeout lapses. Timing out is not an error: the page may simply
// have nothing to change for this selection, so the caller proceeds with
// whatever state is current.
func (e *Extractor) awaitStable(ctx context.Context, container dom.Node, prev string) {
	timeout := e.StabilizeTimeout
	if timeout <= 0 {
		timeout = defaultStabilizeTimeout
	}
	interval := e.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if contentHash(container.HTML()) != prev {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

func (e *Extractor) isTrigger(label string) bool {
	want := e.TriggerLabel
	if want == "" {
		want = defaultTriggerLabel
	}
	return strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(want))
}

// scanGroups classifies every currently visible top-level group.
func scanGroups(container dom.Node) []Group {
	var groups []Group
	for _, g := range container.Find(selOptionGroup) {
		if !g.Visible() {
			continue
		}
		inner, ok := g.First(selProductOption)
		if !ok {
			continue
		}
		groups = append(groups, Classify(inner))
	}
	return groups
}

// triggerValues lists the trigger radio's choice values in DOM order.
func triggerValues(trigger dom.Node) []string {
	var values []string
	for _, in := range trigger.Find(selRadioCluster + " " + selRadioOption + " " + selRadioInput) {
		if v := in.Attr("value"); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func contentHash(html string) string {
	sum := sha256.Sum256([]byte(html))
	return hex.EncodeToString(sum[:])
}
