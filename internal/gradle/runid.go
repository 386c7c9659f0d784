package gradle

import (
	"fmt"
	"math/rand"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const runIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var runAdjectives = []string{
	"brisk", "bright", "calm", "crisp", "eager", "fleet", "gentle", "hardy", "keen",
	"lucid", "nimble", "plucky", "quick", "quiet", "rapid", "sharp", "snappy", "steady",
	"sturdy", "swift", "tidy", "vivid", "wary", "zesty",
}

var runBirds = []string{
	"avocet", "bunting", "curlew", "dipper", "dunlin", "egret", "falcon", "finch",
	"godwit", "grebe", "harrier", "heron", "kestrel", "kite", "lapwing", "linnet",
	"merlin", "osprey", "petrel", "plover", "redstart", "shrike", "siskin", "swift",
	"tern", "wagtail", "warbler", "wren",
}

// newRunID returns an id like "swift_kestrel_V1StGXR8" used to correlate the
// log lines of one build.
func newRunID() (string, error) {
	suffix, err := gonanoid.Generate(runIDAlphabet, 8)
	if err != nil {
		return "", fmt.Errorf("failed to generate run id: %w", err)
	}
	adjective := runAdjectives[rand.Intn(len(runAdjectives))]
	bird := runBirds[rand.Intn(len(runBirds))]
	return fmt.Sprintf("%s_%s_%s", adjective, bird, suffix), nil
}
