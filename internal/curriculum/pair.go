package curriculum

// PairedItem is a learning-language item joined with its native-language
// text.
type PairedItem struct {
	Item
	Translation string
	// Fallback is set when no native item existed and Translation is the
	// learning text itself.
	Fallback bool
}

// IsSentence reports whether the item is a sentence.
func (p PairedItem) IsSentence() bool {
	return p.Kind == KindSentence
}

// Pair matches the items of two steps by id, keeping the learning step's
// order. Items missing from native use their own text as translation.
func Pair(learning, native Step) []PairedItem {
	out := make([]PairedItem, 0, len(learning.Items))
	for _, it := range learning.Items {
		p := PairedItem{Item: it}
		if n, ok := native.Item(it.ID); ok && n.Text != "" {
			p.Translation = n.Text
		} else {
			p.Translation = it.Text
			p.Fallback = true
		}
		out = append(out, p)
	}
	return out
}
