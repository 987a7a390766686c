package skycoach

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/lukman83/boostgg-scrap/internal/dom"
	"github.com/lukman83/boostgg-scrap/internal/models"
)

// Group is one classified option axis: the node it was found at, its
// structural kind, its display label, and a content-addressed signature of
// its semantic state. Computed once per scan and never mutated.
type Group struct {
	Node      dom.Node
	Kind      models.Kind
	Label     string
	Signature string
}

// Classify determines the kind, label and semantic signature of one
// product-option node. It is a pure function of node content. The signature
// hashes only information that changes the configurator's meaning or price:
// choice labels, underlying values, price text, scale bounds and defaults.
// Framework attributes and styling hooks never enter the hash, so two
// renders of logically identical content always collide.
func Classify(n dom.Node) Group {
	label := headerLabel(n)

	if cluster, ok := n.First(selRangeCluster); ok {
		kind := detectRangeKind(cluster)
		if label == "" {
			label = firstInputLabel(cluster)
		}
		if label == "" {
			if kind == models.KindRange {
				label = "Range"
			} else {
				label = "Slider"
			}
		}
		var scales, defaults []string
		for _, item := range cluster.Find(selRangeScale) {
			if t := item.Text(); t != "" {
				scales = append(scales, t)
			}
		}
		for _, in := range cluster.Find(selRangeInputs) {
			if v := in.Attr("value"); v != "" {
				defaults = append(defaults, v)
			}
		}
		sig := fmt.Sprintf("%s|%s|scale:%s|def:%s",
			kind, labelKey(label), strings.Join(scales, ","), strings.Join(defaults, ","))
		return Group{Node: n, Kind: kind, Label: label, Signature: hashSignature(sig)}
	}

	if cluster, ok := n.First(selRadioCluster); ok {
		var items []string
		for _, ro := range cluster.Find(selRadioOption) {
			if !ro.Visible() {
				continue
			}
			in, ok := ro.First(selRadioInput)
			if !ok {
				continue
			}
			price := ""
			if p, ok := ro.First(selRadioPrice); ok {
				price = p.Text()
			}
			items = append(items, choiceLabel(ro)+"|"+in.Attr("value")+"|"+price)
		}
		sig := fmt.Sprintf("radio|%s|items:%s", labelKey(label), strings.Join(items, "||"))
		return Group{Node: n, Kind: models.KindRadio, Label: label, Signature: hashSignature(sig)}
	}

	if cluster, ok := n.First(selButtonsCluster); ok {
		var items []string
		for _, btn := range cluster.Find("button") {
			if !btn.Visible() {
				continue
			}
			items = append(items, buttonLabel(btn))
		}
		sig := fmt.Sprintf("buttons|%s|items:%s", labelKey(label), strings.Join(items, "||"))
		return Group{Node: n, Kind: models.KindButtons, Label: label, Signature: hashSignature(sig)}
	}

	if cluster, ok := n.First(selCheckboxCluster); ok {
		var items []string
		for _, co := range cluster.Find(selCheckboxOption) {
			if !co.Visible() {
				continue
			}
			value := ""
			if in, ok := co.First(selCheckboxInput); ok {
				value = in.Attr("value")
			}
			price := ""
			if p, ok := co.First(selCheckboxPrice); ok {
				price = p.Text()
			}
			items = append(items, choiceLabel(co)+"|"+value+"|"+price)
		}
		sig := fmt.Sprintf("checkbox|%s|items:%s", labelKey(label), strings.Join(items, "||"))
		return Group{Node: n, Kind: models.KindCheckbox, Label: label, Signature: hashSignature(sig)}
	}

	if sel, ok := n.First(selSelectCluster + " " + selSelectTag); ok {
		var items []string
		for _, opt := range sel.Find(selSelectOpt) {
			items = append(items, opt.Text())
		}
		sig := fmt.Sprintf("select|%s|items:%s", labelKey(label), strings.Join(items, "||"))
		return Group{Node: n, Kind: models.KindSelect, Label: label, Signature: hashSignature(sig)}
	}

	// Last resort: hash a bounded prefix of raw markup so unknown shapes
	// still diff without ever blocking the pipeline.
	raw := n.HTML()
	if len(raw) > 500 {
		raw = raw[:500]
	}
	sig := fmt.Sprintf("unknown|%s|%s", labelKey(label), raw)
	return Group{Node: n, Kind: models.KindUnknown, Label: label, Signature: hashSignature(sig)}
}

// detectRangeKind distinguishes a two-way range from a one-way slider by
// counting knobs and numeric inputs; two of either means from/to.
func detectRangeKind(cluster dom.Node) models.Kind {
	if len(cluster.Find(selRangeKnob)) >= 2 || len(cluster.Find(selNumberInput)) >= 2 {
		return models.KindRange
	}
	return models.KindSlider
}

// headerLabel reads the group's header text, colon stripped.
func headerLabel(n dom.Node) string {
	l, ok := n.First(selOptionLabel)
	if !ok {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(l.Text(), ":", ""))
}

// inputLabels returns per-input labels of a range cluster in DOM order.
func inputLabels(cluster dom.Node) []string {
	var labels []string
	for _, box := range cluster.Find(selInputBox) {
		if l, ok := box.First(selInputLabel); ok {
			if t := l.Text(); t != "" {
				labels = append(labels, t)
			}
		}
	}
	return labels
}

func firstInputLabel(cluster dom.Node) string {
	if labels := inputLabels(cluster); len(labels) > 0 {
		return labels[0]
	}
	return ""
}

// choiceLabel extracts the human label of one radio/checkbox choice. The
// label span nests the price markup, so the price text is subtracted before
// cleanup.
func choiceLabel(choice dom.Node) string {
	span, ok := choice.First(selChoiceLabel)
	if !ok {
		return choice.Text()
	}
	text := span.Text()
	for _, infoSel := range []string{selRadioInfo, selCheckboxInfo} {
		if info, ok := span.First(infoSel); ok {
			text = strings.Replace(text, info.Text(), "", 1)
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return choice.Text()
	}
	return text
}

func buttonLabel(btn dom.Node) string {
	if l, ok := btn.First(selButtonLabel); ok {
		return l.Text()
	}
	return btn.Text()
}

// labelKey normalizes a label for signature and diff-map keying.
func labelKey(label string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(label), ":", ""))
}

func hashSignature(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
