package testutil

import (
	"errors"
	"fmt"
)

// Widget is built positionally from a size and an attachment.
type Widget struct {
	Size       int
	Attachment any

	// Label is injected as a plain field.
	Label string

	colorCalls int
	color      string
}

// NewWidget is the Widget constructor registered as "Widget".
func NewWidget(size int, attachment any) *Widget {
	return &Widget{Size: size, Attachment: attachment}
}

// SetColor is the setter used for the "color" property.
func (w *Widget) SetColor(c string) {
	w.colorCalls++
	w.color = c
}

// Color returns the value written by SetColor.
func (w *Widget) Color() string { return w.color }

// ColorCalls returns how many times SetColor ran.
func (w *Widget) ColorCalls() int { return w.colorCalls }

// Shape receives properties through fields, one of them tagged.
type Shape struct {
	Color  string
	Size   float64
	Parent *Shape
	Border int `inject:"border-width"`
}

// NewShape is the Shape constructor registered as "Shape".
func NewShape() *Shape { return &Shape{} }

// Node refers to another node, allowing self-referencing singletons.
type Node struct {
	Name string
	Next *Node
}

// NewNode is the Node constructor registered as "Node".
func NewNode(name string) *Node { return &Node{Name: name} }

// Maker is a factory component with methods for factory configs.
type Maker struct {
	Calls []string
}

// NewMaker is the Maker constructor registered as "Maker".
func NewMaker() *Maker { return &Maker{} }

// CreateInstance is the default factory method; it receives the factory type string.
func (m *Maker) CreateInstance(kind string) (*Widget, error) {
	m.Calls = append(m.Calls, "CreateInstance:"+kind)
	if kind == "" {
		return nil, errors.New("kind is required")
	}
	return &Widget{Label: kind}, nil
}

// Build returns a widget of the given size.
func (m *Maker) Build(size int) *Widget {
	m.Calls = append(m.Calls, fmt.Sprintf("Build:%d", size))
	return &Widget{Size: size}
}

// Strict rejects every property value through an error-returning setter.
type Strict struct{}

// NewStrict is the Strict constructor registered as "Strict".
func NewStrict() *Strict { return &Strict{} }

// SetMode always fails.
func (s *Strict) SetMode(string) error { return ErrStrictMode }

// ErrStrictMode is returned by Strict.SetMode.
var ErrStrictMode = errors.New("mode cannot be changed")

// Sealed has no setters and no exported fields.
type Sealed struct {
	hidden string
}

// NewSealed is the Sealed constructor registered as "Sealed".
func NewSealed() *Sealed { return &Sealed{} }

// Hidden exposes the unexported field so tests can show it was left alone.
func (s *Sealed) Hidden() string { return s.hidden }

// NewExploding panics.
func NewExploding() *Widget {
	panic("boom")
}
