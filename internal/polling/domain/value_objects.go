package domain

import (
	"fmt"
	"strings"
)

// AllowedCategories は投票に設定できるカテゴリの一覧。表示順もこの順序に従う。
var AllowedCategories = []Category{
	"Food and Drink",
	"Entertainment",
	"Technology and Gadgets",
	"Lifestyle and Fashion",
	"Education",
	"Health and Fitness",
	"Politics and Society",
	"Travel and Places",
	"Business and Finance",
	"Science and Innovation",
	"Personal Preferences",
	"Events and Festivals",
	"Others",
}

type Category string

// NewCategory は入力をトリムし、既知のカテゴリと大文字小文字を無視して照合する。
func NewCategory(value string) (Category, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: category is required", ErrInvalidDraft)
	}
	for _, allowed := range AllowedCategories {
		if strings.EqualFold(string(allowed), trimmed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("%w: invalid category: %s", ErrInvalidDraft, trimmed)
}

func (c Category) String() string {
	return string(c)
}

type ChoiceType string

const (
	ChoiceSingle   ChoiceType = "SINGLE"
	ChoiceMultiple ChoiceType = "MULTIPLE"
)

func NewChoiceType(value string) (ChoiceType, error) {
	switch ChoiceType(strings.ToUpper(strings.TrimSpace(value))) {
	case ChoiceSingle:
		return ChoiceSingle, nil
	case ChoiceMultiple:
		return ChoiceMultiple, nil
	case "":
		return "", fmt.Errorf("%w: choice type is required", ErrInvalidDraft)
	}
	return "", fmt.Errorf("%w: invalid choice type: %s", ErrInvalidDraft, value)
}

func (t ChoiceType) String() string {
	return string(t)
}

// NewOptionList は選択肢数と ID の一意性を検証する。ID 自体はクライアント採番を信頼する。
func NewOptionList(options []Option) ([]Option, error) {
	if len(options) < MinOptions || len(options) > MaxOptions {
		return nil, fmt.Errorf("%w: options must have between %d and %d entries", ErrInvalidDraft, MinOptions, MaxOptions)
	}
	result := make([]Option, 0, len(options))
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		id := strings.TrimSpace(opt.ID)
		label := strings.TrimSpace(opt.Label)
		if id == "" {
			return nil, fmt.Errorf("%w: option id is required", ErrInvalidDraft)
		}
		if label == "" {
			return nil, fmt.Errorf("%w: option label is required", ErrInvalidDraft)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate option id: %s", ErrInvalidDraft, id)
		}
		seen[id] = struct{}{}
		result = append(result, Option{ID: id, Label: label})
	}
	return result, nil
}

// NewPoll は下書きを検証し、ownerID を所有者とする Poll を組み立てる。
func NewPoll(ownerID string, draft PollDraft) (Poll, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Poll{}, fmt.Errorf("%w: owner is required", ErrInvalidDraft)
	}
	question := strings.TrimSpace(draft.QuestionText)
	if question == "" {
		return Poll{}, fmt.Errorf("%w: question text is required", ErrInvalidDraft)
	}
	category, err := NewCategory(draft.Category)
	if err != nil {
		return Poll{}, err
	}
	choiceType, err := NewChoiceType(draft.ChoiceType)
	if err != nil {
		return Poll{}, err
	}
	options, err := NewOptionList(draft.Options)
	if err != nil {
		return Poll{}, err
	}
	return Poll{
		ID:           strings.TrimSpace(draft.ID),
		OwnerID:      ownerID,
		Category:     category,
		QuestionText: question,
		ChoiceType:   choiceType,
		Options:      options,
		CreatedAt:    draft.CreatedAt,
	}, nil
}
