package snippet

import "strings"

// maxLabelLen is the longest label the playback UI renders without clipping.
const maxLabelLen = 25

// ClipArtifact is one successfully produced snippet file.
type ClipArtifact struct {
	Path       string
	OutputName string
	Label      string
}

// NewClipArtifact derives the display label from the output name.
func NewClipArtifact(path, outputName string) ClipArtifact {
	return ClipArtifact{
		Path:       path,
		OutputName: outputName,
		Label:      DeriveLabel(outputName),
	}
}

// DeriveLabel turns a file stem into a human label: underscores and hyphens
// become spaces, each word is capitalized, and anything past 25 characters is
// cut to 22 plus an ellipsis marker.
func DeriveLabel(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	label := strings.Join(words, " ")

	if r := []rune(label); len(r) > maxLabelLen {
		label = string(r[:maxLabelLen-3]) + "..."
	}
	return label
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}
