package message

import (
	"github.com/storypipe/storypipe/errors"
)

// MergeFragments combines the disjoint results of parallel stages into one
// message. Each fragment is a clone of base with exactly its own payload
// field added; a payload key claimed by more than one fragment is a
// configuration error, by construction each parallel stage owns a distinct
// key. The merge is order-independent over payload keys and values.
func MergeFragments(base *Message, fragments []*Message) (*Message, error) {
	merged := base.Clone()
	baseKeys := populatedSet(base)

	for _, frag := range fragments {
		if err := merged.absorb(frag, baseKeys); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// absorb copies payload fields that frag added relative to the base
// snapshot, plus any timestamp keys the receiver lacks.
func (m *Message) absorb(frag *Message, baseKeys map[string]bool) error {
	for _, key := range frag.PopulatedKeys() {
		if baseKeys[key] {
			continue // carried over from the snapshot, not a fragment claim
		}
		if err := m.copyPayload(frag, key); err != nil {
			return err
		}
	}
	for name, rec := range frag.Timestamps {
		if !m.Timestamps.Has(name) {
			cp := *rec
			m.Timestamps[name] = &cp
		}
	}
	for k, v := range frag.Metadata {
		if _, ok := m.Metadata[k]; !ok {
			m.Metadata[k] = v
		}
	}
	return nil
}

func (m *Message) copyPayload(frag *Message, key string) error {
	switch key {
	case KeyStory:
		if m.StoryText != "" {
			return errors.MergeConflict(key)
		}
		m.StoryText = frag.StoryText
	case KeyAnalysis:
		if m.Analysis != nil {
			return errors.MergeConflict(key)
		}
		m.Analysis = frag.Analysis
	case KeyImageConcept:
		if m.ImageConcept != nil {
			return errors.MergeConflict(key)
		}
		m.ImageConcept = frag.ImageConcept
	case KeyAudioScript:
		if m.AudioScript != nil {
			return errors.MergeConflict(key)
		}
		m.AudioScript = frag.AudioScript
	case KeyTranslations:
		if len(m.Translations) > 0 {
			return errors.MergeConflict(key)
		}
		m.Translations = frag.Translations
	case KeyFormattedOutput:
		if m.FormattedOutput != nil {
			return errors.MergeConflict(key)
		}
		m.FormattedOutput = frag.FormattedOutput
	case KeySummary:
		if m.Summary != nil {
			return errors.MergeConflict(key)
		}
		m.Summary = frag.Summary
	}
	return nil
}

func populatedSet(m *Message) map[string]bool {
	set := make(map[string]bool)
	for _, k := range m.PopulatedKeys() {
		set[k] = true
	}
	return set
}
