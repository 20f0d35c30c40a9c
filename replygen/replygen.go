// Package replygen writes reply text for a post with a local chat model:
// classify the post, then draft and refine either a pitch or a casual reply.
package replygen

import (
	"context"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/osman-haider/SmartXBot/backend"
)

// MaxReplyWidth is X's reply limit.
const MaxReplyWidth = 280

const (
	emailPlaceholder = "{email}"
	// emailToken stands in for the address while cleaning strips symbols.
	emailToken = "zzreplyemailzz"
)

var (
	hashtagRe    = regexp.MustCompile(`#\S+`)
	urlRe        = regexp.MustCompile(`http\S+`)
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s,.!?']`)
	spacesRe     = regexp.MustCompile(`[ \t]{2,}`)
)

// Clean strips hashtags, links and anything but letters, digits, spaces and
// basic punctuation.
func Clean(text string) string {
	text = hashtagRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	text = disallowedRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Truncate cuts reply to the width X accepts.
func Truncate(reply string) string {
	return runewidth.Truncate(reply, MaxReplyWidth, "")
}

// Generator produces replies. Prompts passed to Generate override the
// built-in defaults.
type Generator struct {
	chat  Chatter
	email string
}

func NewGenerator(chat Chatter, email string) *Generator {
	return &Generator{chat: chat, email: email}
}

// Classify returns "hiring" or "normal". Model failures fall back to normal.
func (g *Generator) Classify(ctx context.Context, tweet string) string {
	out, err := g.chat.Chat(ctx, classifyPrompt, tweet)
	if err != nil {
		logrus.Warnf("classification failed, defaulting to normal: %v", err)
		return "normal"
	}
	if strings.Contains(strings.ToLower(out), "hiring") {
		return "hiring"
	}
	return "normal"
}

// Generate classifies tweet and runs the matching draft/refine pair.
func (g *Generator) Generate(ctx context.Context, tweet string, prompts backend.Prompts) (string, error) {
	tweet = strings.TrimSpace(tweet)
	kind := g.Classify(ctx, tweet)
	log := logrus.WithField("kind", kind)
	log.Info("generating reply")

	var (
		reply string
		err   error
	)
	if kind == "hiring" {
		reply, err = g.pitch(ctx, tweet, prompts.HiringPrompt)
	} else {
		reply, err = g.casual(ctx, tweet, prompts.NormalPrompt)
	}
	if err != nil {
		return "", err
	}

	reply = Truncate(reply)
	log.Debugf("reply: %s", reply)
	return reply, nil
}

func (g *Generator) casual(ctx context.Context, tweet, normalPrompt string) (string, error) {
	draftPrompt, refinePrompt := defaultNormalPrompt, defaultRefinePrompt
	if strings.TrimSpace(normalPrompt) != "" {
		draftPrompt = normalPrompt
		refinePrompt = normalPrompt + "\n\n" + refineSuffix
	}

	draft, err := g.chat.Chat(ctx, draftPrompt, tweet)
	if err != nil {
		return "", errors.Wrap(err, "draft reply")
	}
	draft = Clean(draft)

	refined, err := g.chat.Chat(ctx, refinePrompt, "Original Tweet: "+tweet+"\nDraft Reply: "+draft)
	if err != nil {
		return "", errors.Wrap(err, "refine reply")
	}
	return Clean(refined), nil
}

func (g *Generator) pitch(ctx context.Context, tweet, hiringPrompt string) (string, error) {
	draftPrompt := defaultPitchPrompt
	if strings.TrimSpace(hiringPrompt) != "" {
		draftPrompt = hiringPrompt
	}

	draft, err := g.chat.Chat(ctx, draftPrompt, tweet)
	if err != nil {
		return "", errors.Wrap(err, "draft pitch")
	}
	draft = g.cleanPitch(draft)

	refined, err := g.chat.Chat(ctx, pitchRefinePrompt, "Tweet: "+tweet+"\nDraft Reply: "+draft+"\n\nRefined Reply:")
	if err != nil {
		return "", errors.Wrap(err, "refine pitch")
	}
	return g.cleanPitch(refined), nil
}

// cleanPitch cleans model output while keeping the contact address intact,
// then substitutes the configured address for the placeholder.
func (g *Generator) cleanPitch(text string) string {
	text = strings.ReplaceAll(text, emailPlaceholder, emailToken)
	if g.email != "" {
		text = strings.ReplaceAll(text, g.email, emailToken)
	}

	text = Clean(text)
	text = strings.ReplaceAll(text, emailToken, g.email)
	return strings.TrimSpace(spacesRe.ReplaceAllString(text, " "))
}
