package twitter

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/osman-haider/SmartXBot/pacing"
)

// ReplyComposer types into the open post's reply box.
type ReplyComposer struct {
	page   Page
	pacing pacing.Policy
}

func NewReplyComposer(page Page, policy pacing.Policy) *ReplyComposer {
	return &ReplyComposer{page: page, pacing: policy}
}

// focus brings the rich-text editor into real input mode and returns it.
func (r *ReplyComposer) focus(ctx context.Context) (Element, error) {
	container, err := r.page.Find(ctx, ReplyContainer)
	if err != nil {
		return nil, err
	}
	if err := container.Click(); err != nil {
		return nil, err
	}
	if err := pacing.Wait(ctx, r.pacing, pacing.FocusSettle); err != nil {
		return nil, err
	}

	editable, err := container.Find(ReplyEditable)
	if err != nil {
		return nil, err
	}

	// The editor only switches out of placeholder mode after a full
	// focus/press/release/click sequence.
	for _, step := range []func() error{editable.Focus, editable.MouseDown, editable.MouseUp, editable.Click} {
		if err := step(); err != nil {
			return nil, err
		}
	}

	if span, err := editable.Find(ReplyPlaceholder); err == nil {
		if err := span.Clear(); err != nil {
			logrus.Debugf("failed to clear placeholder: %v", err)
		}
	}
	if err := pacing.Wait(ctx, r.pacing, pacing.FocusSettle); err != nil {
		return nil, err
	}
	return editable, nil
}

// TypeReply types message one character at a time. It reports false when
// the reply box cannot be located or typing is interrupted.
func (r *ReplyComposer) TypeReply(ctx context.Context, message string) bool {
	editable, err := r.focus(ctx)
	if err != nil {
		if IsNotFound(err) {
			logrus.Warnf("reply box not found: %v", err)
		} else {
			logrus.Errorf("failed to focus reply box: %v", err)
		}
		return false
	}

	for _, ch := range message {
		if err := r.page.InsertText(ctx, string(ch)); err != nil {
			logrus.Errorf("typing interrupted: %v", err)
			return false
		}
		if err := editable.NotifyInput(string(ch)); err != nil {
			logrus.Debugf("input notification failed: %v", err)
		}
		if err := pacing.Wait(ctx, r.pacing, pacing.ReplyTyping); err != nil {
			return false
		}
	}

	logrus.Info("typed message into reply box")
	return true
}

// Submit clicks the inline reply button; false when it is absent.
func (r *ReplyComposer) Submit(ctx context.Context) bool {
	btn, err := r.page.Find(ctx, ReplySubmitButton)
	if err != nil {
		logrus.Warn("reply button not found")
		return false
	}
	if err := btn.Click(); err != nil {
		logrus.Warnf("failed to click reply button: %v", err)
		return false
	}
	return true
}
