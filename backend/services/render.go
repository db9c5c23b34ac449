package services

import (
	"courseplatform/backend/markdown"
	"courseplatform/backend/preview"
)

// LessonRenderer renders lesson markdown and runs the hydration pass over it.
type LessonRenderer struct {
	Markdown *markdown.Renderer
	Hydrator *preview.Hydrator
}

func NewLessonRenderer() *LessonRenderer {
	return &LessonRenderer{
		Markdown: markdown.NewRenderer(markdown.DefaultStyle),
		Hydrator: preview.NewHydrator(),
	}
}

func (r *LessonRenderer) HTML(source string, mode markdown.Mode) (string, error) {
	out, err := r.Markdown.Render(source, mode)
	if err != nil || out == "" {
		return out, err
	}
	return r.Hydrator.Hydrate(out)
}
