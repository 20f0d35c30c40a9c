package twitter

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/pkg/errors"
)

type rodPage struct {
	page *rod.Page
}

// NewRodPage adapts a rod page to Page.
func NewRodPage(page *rod.Page) Page {
	return &rodPage{page: page}
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	pg := p.page.Context(ctx)
	if err := pg.Navigate(url); err != nil {
		return errors.Wrapf(err, "navigate to %s", url)
	}
	if err := pg.WaitLoad(); err != nil {
		return errors.Wrapf(err, "wait load %s", url)
	}
	return nil
}

func (p *rodPage) Find(ctx context.Context, selector string) (Element, error) {
	has, el, err := p.page.Context(ctx).Has(selector)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", selector)
	}
	if !has {
		return nil, errors.Wrapf(ErrNotFound, "selector %s", selector)
	}
	return &rodElement{el: el}, nil
}

func (p *rodPage) FindAll(ctx context.Context, selector string) ([]Element, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, errors.Wrapf(err, "query all %s", selector)
	}

	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}

func (p *rodPage) FindByText(ctx context.Context, selector, pattern string) (Element, error) {
	has, el, err := p.page.Context(ctx).HasR(selector, pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s matching %s", selector, pattern)
	}
	if !has {
		return nil, errors.Wrapf(ErrNotFound, "selector %s matching %s", selector, pattern)
	}
	return &rodElement{el: el}, nil
}

// InsertText goes through execCommand so rich-text editors (Draft.js) see a
// native insertion and keep their internal state in sync.
func (p *rodPage) InsertText(ctx context.Context, text string) error {
	_, err := p.page.Context(ctx).Eval(`(t) => document.execCommand('insertText', false, t)`, text)
	return errors.Wrap(err, "insert text")
}

func (p *rodPage) ScrollBy(ctx context.Context, dy int) error {
	_, err := p.page.Context(ctx).Eval(`(dy) => window.scrollBy(0, dy)`, dy)
	return errors.Wrap(err, "scroll")
}

func (p *rodPage) Location(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", errors.Wrap(err, "page info")
	}
	return info.URL, nil
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) Attribute(name string) (string, error) {
	v, err := e.el.Attribute(name)
	if err != nil || v == nil {
		return "", err
	}
	return *v, nil
}

func (e *rodElement) Find(selector string) (Element, error) {
	has, child, err := e.el.Has(selector)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", selector)
	}
	if !has {
		return nil, errors.Wrapf(ErrNotFound, "selector %s", selector)
	}
	return &rodElement{el: child}, nil
}

// Click dispatches a DOM click. rod's input click waits until nothing covers
// the element, which blocks forever behind a toast or banner.
func (e *rodElement) Click() error {
	_, err := e.el.Eval(`() => this.click()`)
	return errors.Wrap(err, "click")
}

func (e *rodElement) Focus() error {
	return e.el.Focus()
}

func (e *rodElement) MouseDown() error {
	return e.dispatchMouse("mousedown")
}

func (e *rodElement) MouseUp() error {
	return e.dispatchMouse("mouseup")
}

func (e *rodElement) dispatchMouse(kind string) error {
	_, err := e.el.Eval(`(kind) => this.dispatchEvent(new MouseEvent(kind, {bubbles: true}))`, kind)
	return err
}

func (e *rodElement) Clear() error {
	_, err := e.el.Eval(`() => {
		if (typeof this.value === 'string') {
			this.value = '';
		} else {
			this.textContent = '';
		}
	}`)
	return err
}

func (e *rodElement) NotifyInput(data string) error {
	_, err := e.el.Eval(`(data) => this.dispatchEvent(new InputEvent('input', {
		bubbles: true,
		cancelable: true,
		inputType: 'insertText',
		data: data,
	}))`, data)
	return err
}
