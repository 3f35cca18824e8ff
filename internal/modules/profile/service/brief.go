package service

import (
	"context"
	"fmt"
	"strings"

	"prapp/internal/modules/profile/domain"
	profileout "prapp/internal/modules/profile/port/out"
	"prapp/internal/platform/markdown"
)

// briefMeta is the frontmatter of a preparation brief. Absent keys leave the
// matching profile field untouched.
type briefMeta struct {
	PreparationType *string     `yaml:"preparation_type,omitempty"`
	MeetingSubtype  *string     `yaml:"meeting_subtype,omitempty"`
	Tone            *string     `yaml:"tone,omitempty"`
	ActivationState string      `yaml:"activation_state,omitempty"`
	TrainingFocus   *briefFocus `yaml:"training_focus,omitempty"`
	Sessions        int         `yaml:"sessions,omitempty"`
}

type briefFocus struct {
	Title          string   `yaml:"title"`
	Tags           []string `yaml:"tags,omitempty"`
	AgendaTemplate string   `yaml:"agenda_template,omitempty"`
}

// BriefService moves profile context in and out of documents.
type BriefService struct {
	store  *Store
	reader profileout.DocumentReader
}

func NewBriefService(store *Store, reader profileout.DocumentReader) *BriefService {
	return &BriefService{store: store, reader: reader}
}

// ImportCV replaces cvText with the text extracted from path.
func (s *BriefService) ImportCV(ctx context.Context, path string) (domain.Profile, error) {
	if strings.TrimSpace(path) == "" {
		return domain.Profile{}, fmt.Errorf("cv path is required")
	}
	text, err := s.reader.ReadText(ctx, path)
	if err != nil {
		return domain.Profile{}, err
	}
	text = strings.TrimSpace(text)
	return s.store.Update(ctx, domain.Patch{CVText: &text})
}

// ImportContext applies a markdown brief: frontmatter sets the preparation
// fields and the body becomes the agenda.
func (s *BriefService) ImportContext(ctx context.Context, path string) (domain.Profile, error) {
	if strings.TrimSpace(path) == "" {
		return domain.Profile{}, fmt.Errorf("brief path is required")
	}
	content, err := s.reader.ReadText(ctx, path)
	if err != nil {
		return domain.Profile{}, err
	}
	meta := briefMeta{}
	body, err := markdown.Split(content, &meta)
	if err != nil {
		return domain.Profile{}, err
	}
	patch := domain.Patch{
		PreparationType: meta.PreparationType,
		MeetingSubtype:  meta.MeetingSubtype,
		Tone:            meta.Tone,
	}
	if agenda := strings.TrimSpace(body); agenda != "" {
		patch.Agenda = &agenda
	}
	if meta.TrainingFocus != nil {
		focus := &domain.TrainingFocus{
			Title:          meta.TrainingFocus.Title,
			Tags:           dedupe(meta.TrainingFocus.Tags),
			AgendaTemplate: meta.TrainingFocus.AgendaTemplate,
		}
		patch.TrainingFocus = &focus
	}
	return s.store.Update(ctx, patch)
}

// Export renders the profile as a markdown brief with read-only history
// sections appended to the agenda.
func (s *BriefService) Export(ctx context.Context) (string, error) {
	p := s.store.Profile(ctx)
	meta := briefMeta{
		PreparationType: &p.PreparationType,
		MeetingSubtype:  &p.MeetingSubtype,
		Tone:            &p.Tone,
		ActivationState: string(p.ActivationState),
		Sessions:        len(p.Sessions),
	}
	if p.TrainingFocus != nil {
		meta.TrainingFocus = &briefFocus{
			Title:          p.TrainingFocus.Title,
			Tags:           p.TrainingFocus.Tags,
			AgendaTemplate: p.TrainingFocus.AgendaTemplate,
		}
	}
	return markdown.Render(meta, RenderBody(p))
}

// RenderBody is the markdown body shown for a profile: agenda, improvements
// and session history, newest first.
func RenderBody(p domain.Profile) string {
	var sb strings.Builder
	agenda := strings.TrimSpace(p.Agenda)
	if agenda == "" {
		agenda = "_No agenda yet._"
	}
	sb.WriteString(agenda + "\n")
	if len(p.Improvements) > 0 {
		sb.WriteString("\n## Improvements\n\n")
		for _, item := range p.Improvements {
			sb.WriteString("- " + item + "\n")
		}
	}
	if len(p.Sessions) > 0 {
		sb.WriteString("\n## Sessions\n\n")
		for _, session := range p.Sessions {
			line := fmt.Sprintf("- `%s` %s", session.ID, session.Type)
			if session.Subtype != "" {
				line += " / " + session.Subtype
			}
			line += fmt.Sprintf(" on %s, %s", session.Date.Format("2006-01-02 15:04"), session.Status)
			if session.Score != nil {
				line += fmt.Sprintf(", score %d", *session.Score)
			}
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}

// dedupe keeps the first occurrence of each tag; tags are a set.
func dedupe(tags []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
