package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// DefaultLang is used when neither the request nor the config names one.
const DefaultLang = "es"

// LanguageService resolves translated phrases.
//
// A phrase missing from the store is rendered from its key, so
// "token_invalid" reads "Token invalid".
type LanguageService struct {
	store       PhraseStore
	defaultLang string
	logger      *slog.Logger
}

// NewLanguageService creates a LanguageService.
func NewLanguageService(store PhraseStore, defaultLang string, logger *slog.Logger) *LanguageService {
	if defaultLang == "" {
		defaultLang = DefaultLang
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LanguageService{store: store, defaultLang: defaultLang, logger: logger}
}

// Lang returns lang, or the default language when lang is empty.
func (s *LanguageService) Lang(lang string) string {
	if lang == "" {
		return s.defaultLang
	}
	return lang
}

// All returns every phrase of lang as a var_name to value map.
func (s *LanguageService) All(ctx context.Context, lang string) (map[string]string, error) {
	phrases, err := s.store.ListPhrases(ctx, s.Lang(lang))
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(phrases))
	for _, p := range phrases {
		out[p.VarName] = p.Value
	}
	return out, nil
}

// FindPhrase returns the translation of varName in lang, falling back to
// the humanized key.
func (s *LanguageService) FindPhrase(ctx context.Context, varName, lang string) string {
	p, err := s.store.FindPhrase(ctx, varName, s.Lang(lang))
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			s.logger.Warn("phrase lookup failed", "var_name", varName, "error", err)
		}
		return domain.Humanize(varName)
	}
	return p.Value
}

// Phrases resolves each name in varNames.
func (s *LanguageService) Phrases(ctx context.Context, varNames []string, lang string) (map[string]string, error) {
	if len(varNames) == 0 {
		return nil, domain.ErrInvalidArgument.WithDetails("invalid language received")
	}
	out := make(map[string]string, len(varNames))
	for _, name := range varNames {
		out[name] = s.FindPhrase(ctx, name, lang)
	}
	return out, nil
}

// AddPhrase stores a translation. An empty language uses the default.
func (s *LanguageService) AddPhrase(ctx context.Context, p *domain.Phrase) error {
	if p == nil || strings.TrimSpace(p.VarName) == "" {
		return domain.ErrMissingArgument.WithDetails("var_name")
	}
	if p.Value == "" {
		return domain.ErrMissingArgument.WithDetails("value")
	}
	p.VarName = strings.TrimSpace(p.VarName)
	p.Lang = s.Lang(p.Lang)
	return s.store.AddPhrase(ctx, p)
}
