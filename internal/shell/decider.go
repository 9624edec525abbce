package shell

import (
	"errors"
	"fmt"
	"strings"

	"ytd/internal/model"
	"ytd/internal/pipeline"
	"ytd/internal/prompt"
	"ytd/internal/util/format"
	"ytd/internal/util/media"
)

// PromptDecider answers pipeline.Decider questions at the terminal.
type PromptDecider struct {
	p *prompt.Prompter
}

// NewPromptDecider returns a decider asking through p.
func NewPromptDecider(p *prompt.Prompter) *PromptDecider {
	return &PromptDecider{p: p}
}

var _ pipeline.Decider = (*PromptDecider)(nil)

func (d *PromptDecider) ConfirmVideo(v model.VideoRef) (bool, error) {
	out := d.p.Out()
	fmt.Fprintln(out, "<----------==========VIDEO FOUND==========---------->")
	fmt.Fprintln(out, media.Summary(v))
	fmt.Fprintln(out, bannerLine)
	return d.p.YesNo("Is this the video you are looking for? (y/n)\nYour Choice: ")
}

func (d *PromptDecider) ChooseVariant(v model.VideoRef, variants []model.StreamVariant) (int, error) {
	out := d.p.Out()
	fmt.Fprintln(out, "Choose a Video Format:")
	for i, sv := range variants {
		line := fmt.Sprintf("%d. %s at %d fps", i+1, sv.Quality, sv.FPS)
		if sv.Size > 0 {
			line += " (" + format.HumanizeBytes(sv.Size) + ")"
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "%d. Exit\n", len(variants)+1)

	n, err := d.p.Int("Your Choice: ")
	if err != nil {
		if errors.Is(err, prompt.ErrNotANumber) {
			return 0, fmt.Errorf("%w: %v", model.ErrInvalidSelection, err)
		}
		return 0, err
	}
	if n >= 1 && n <= len(variants) {
		fmt.Fprintf(out, "Downloading: %s at %s resolution\n", v.Title, variants[n-1].Quality)
	}
	return n, nil
}

func (d *PromptDecider) ResolveConflict(path string) (pipeline.Resolution, error) {
	out := d.p.Out()
	fmt.Fprintf(out, "Output: File already exists at %s\n", path)
	fmt.Fprintln(out, "1. Overwrite\n2. Save under another name\n3. Cancel")
	n, err := d.p.Int("Your Choice: ")
	if err != nil {
		if errors.Is(err, prompt.ErrNotANumber) {
			return pipeline.Resolution{}, fmt.Errorf("%w: %v", model.ErrInvalidSelection, err)
		}
		return pipeline.Resolution{}, err
	}
	switch n {
	case 1:
		return pipeline.Resolution{Action: pipeline.Overwrite}, nil
	case 2:
		name, err := d.p.Line("New file name: ")
		if err != nil {
			return pipeline.Resolution{}, err
		}
		return pipeline.Resolution{Action: pipeline.Rename, Filename: strings.TrimSpace(name)}, nil
	case 3:
		return pipeline.Resolution{Action: pipeline.Abort}, nil
	default:
		return pipeline.Resolution{}, fmt.Errorf("%w: %d", model.ErrInvalidSelection, n)
	}
}
