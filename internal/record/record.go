// Package record defines the persisted content record of one edition and
// its on-disk store.
package record

import (
	"encoding/json"
	"strings"

	"kidsnews/internal/activity"
)

// Page1 is the front-page article.
type Page1 struct {
	Headline    string   `json:"headline"`
	ArticleBody []string `json:"article_body"`
	ImagePrompt string   `json:"image_prompt"`
}

// WordInfo is the vocabulary sidebar.
type WordInfo struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// WisdomWindow is the proverb sidebar.
type WisdomWindow struct {
	Title   string `json:"title"`
	Meaning string `json:"meaning"`
}

// HiddenWord is the find-the-word challenge.
type HiddenWord struct {
	Word    string `json:"word"`
	Mission string `json:"mission"`
}

// Sidebar defaults rendered when the model left a sidebar out.
var (
	DefaultWordInfo     = WordInfo{Word: "Undetermined", Definition: "Pick a word from the article and look it up together."}
	DefaultWisdomWindow = WisdomWindow{Title: "Undetermined", Meaning: "Read the article and find today's lesson."}
	DefaultHiddenWord   = HiddenWord{Word: "...", Mission: "Find today's key word in the article!"}
)

// DefaultHeadline stands in for a missing headline when generating activities.
const DefaultHeadline = "Untitled"

// Record is one edition's generated content.
type Record struct {
	SelectedTopic string            `json:"selected_topic,omitempty"`
	Page1         *Page1            `json:"page1,omitempty"`
	ActivityType  activity.Kind     `json:"activity_type,omitempty"`
	ActivityData  activity.Activity `json:"activity_data,omitempty"`
	// RequestedActivity is the kind stage two was asked for when the
	// dispatcher substituted another one.
	RequestedActivity activity.Kind `json:"requested_activity,omitempty"`
	WordInfo          *WordInfo     `json:"word_info,omitempty"`
	WisdomWindow      *WisdomWindow `json:"wisdom_window,omitempty"`
	HiddenWord        *HiddenWord   `json:"hidden_word,omitempty"`
}

// State is the pipeline position of a record.
type State int

const (
	StateAbsent State = iota
	StateStage1Only
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateStage1Only:
		return "stage1_only"
	case StateComplete:
		return "complete"
	default:
		return "absent"
	}
}

// State derives the pipeline state from which fields are present.
func (r *Record) State() State {
	switch {
	case r == nil:
		return StateAbsent
	case r.ActivityData != nil:
		return StateComplete
	default:
		return StateStage1Only
	}
}

// Headline returns the article headline or DefaultHeadline.
func (r *Record) Headline() string {
	if r.Page1 == nil || strings.TrimSpace(r.Page1.Headline) == "" {
		return DefaultHeadline
	}
	return r.Page1.Headline
}

// Body joins the article paragraphs with single spaces.
func (r *Record) Body() string {
	if r.Page1 == nil {
		return ""
	}
	return strings.Join(r.Page1.ArticleBody, " ")
}

// HasArticle reports whether stage one produced the required fields.
func (r *Record) HasArticle() bool {
	return r.Page1 != nil && strings.TrimSpace(r.Page1.Headline) != "" && len(r.Page1.ArticleBody) > 0
}

// CleanTopic returns the topic up to its first parenthesis.
func (r *Record) CleanTopic() string {
	topic := r.SelectedTopic
	if i := strings.Index(topic, "("); i >= 0 {
		topic = topic[:i]
	}
	return strings.TrimSpace(topic)
}

// Word returns the vocabulary sidebar or its default.
func (r *Record) Word() WordInfo {
	if r.WordInfo == nil || r.WordInfo.Word == "" {
		return DefaultWordInfo
	}
	return *r.WordInfo
}

// Wisdom returns the proverb sidebar or its default.
func (r *Record) Wisdom() WisdomWindow {
	if r.WisdomWindow == nil || r.WisdomWindow.Title == "" {
		return DefaultWisdomWindow
	}
	return *r.WisdomWindow
}

// Hidden returns the hidden-word challenge or its default.
func (r *Record) Hidden() HiddenWord {
	if r.HiddenWord == nil || r.HiddenWord.Word == "" {
		return DefaultHiddenWord
	}
	return *r.HiddenWord
}

// SetActivity stores a and keeps activity_type in step with its variant.
// When a substitutes for the kind that was asked for, that kind is kept as
// RequestedActivity.
func (r *Record) SetActivity(a activity.Activity) {
	r.ActivityData = a
	if a == nil {
		return
	}
	r.RequestedActivity = ""
	if r.ActivityType != "" && r.ActivityType != a.Kind() {
		r.RequestedActivity = r.ActivityType
	}
	r.ActivityType = a.Kind()
}

// Requested returns the kind stage two was asked for.
func (r *Record) Requested() activity.Kind {
	if r.RequestedActivity != "" {
		return r.RequestedActivity
	}
	return r.ActivityType
}

// ClearActivity drops generated activity data.
func (r *Record) ClearActivity() {
	r.ActivityData = nil
	r.RequestedActivity = ""
}

type recordJSON struct {
	SelectedTopic string          `json:"selected_topic,omitempty"`
	Page1         *Page1          `json:"page1,omitempty"`
	ActivityType  string          `json:"activity_type,omitempty"`
	ActivityData  json.RawMessage `json:"activity_data,omitempty"`
	Requested     string          `json:"requested_activity,omitempty"`
	WordInfo      *WordInfo       `json:"word_info,omitempty"`
	WisdomWindow  *WisdomWindow   `json:"wisdom_window,omitempty"`
	HiddenWord    *HiddenWord     `json:"hidden_word,omitempty"`
}

// UnmarshalJSON decodes activity_data into the variant named by
// activity_type. Activity data that cannot be read at all is dropped, which
// leaves the record at stage one so the activity is generated again.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{
		SelectedTopic: raw.SelectedTopic,
		Page1:         raw.Page1,
		WordInfo:      raw.WordInfo,
		WisdomWindow:  raw.WisdomWindow,
		HiddenWord:    raw.HiddenWord,
	}
	if raw.ActivityType != "" {
		r.ActivityType = activity.Normalize(raw.ActivityType)
	}
	if len(raw.ActivityData) > 0 && string(raw.ActivityData) != "null" {
		kind := r.ActivityType
		if kind == "" {
			kind = activity.KindFreeResponse
		}
		if a, err := activity.Unmarshal(kind, raw.ActivityData); err == nil {
			r.ActivityData = a
			r.ActivityType = kind
			if raw.Requested != "" {
				r.RequestedActivity = activity.Normalize(raw.Requested)
			}
		}
	}
	return nil
}
