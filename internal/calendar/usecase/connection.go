package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"
	"github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/pkg/gcal"

	"golang.org/x/oauth2"
)

// ErrNotConnected is returned when an operation needs a Google credential
// and the user has never completed (or has revoked) the code exchange.
var ErrNotConnected = errors.New("google calendar is not connected for this user")

func (u *calendarSyncUsecase) GetAuthURL(userID string) string {
	return u.provider.AuthCodeURL(userID)
}

func (u *calendarSyncUsecase) ExchangeCode(ctx context.Context, userID, code string) error {
	token, err := u.provider.ExchangeCode(ctx, code)
	if err != nil {
		return err
	}

	scope := ""
	if s, ok := token.Extra("scope").(string); ok {
		scope = s
	}

	credential := &caldomain.GoogleCredential{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
		Scope:        scope,
	}
	if err := u.credRepo.Save(credential); err != nil {
		return fmt.Errorf("failed to persist google credential: %v", err)
	}
	return nil
}

func (u *calendarSyncUsecase) ConnectionStatus(ctx context.Context, userID string) (*ConnectionStatus, error) {
	credential, err := u.credRepo.Get(userID)
	if err != nil {
		return nil, err
	}
	if credential == nil {
		return &ConnectionStatus{
			NeedsReauth: true,
			Reason:      "no Google credential stored; authorization required",
		}, nil
	}

	scope, err := u.provider.TokenScopes(ctx, credential.AccessToken)
	if err != nil {
		// The access token may simply be expired; a refresh token still makes
		// the connection usable, so only report re-auth when we cannot refresh.
		if credential.RefreshToken == "" {
			return &ConnectionStatus{
				NeedsReauth: true,
				Reason:      "access token expired and no refresh token is stored",
			}, nil
		}
		scope = credential.Scope
	}

	if !strings.Contains(scope, gcal.CalendarScope) {
		return &ConnectionStatus{
			NeedsReauth: true,
			Reason:      "stored credential is missing the calendar scope; re-authorize to grant it",
		}, nil
	}

	return &ConnectionStatus{Connected: true}, nil
}

func (u *calendarSyncUsecase) ListCalendars(ctx context.Context, userID string) ([]*caldomain.CalendarInfo, error) {
	access, refresh, err := u.requireTokens(userID)
	if err != nil {
		return nil, err
	}
	return u.provider.ListCalendars(ctx, access, refresh, u.tokenUpdateFunc(userID))
}

// requireTokens loads the stored credential or fails with ErrNotConnected.
func (u *calendarSyncUsecase) requireTokens(userID string) (accessToken, refreshToken string, err error) {
	credential, err := u.credRepo.Get(userID)
	if err != nil {
		return "", "", err
	}
	if credential == nil {
		return "", "", ErrNotConnected
	}
	return credential.AccessToken, credential.RefreshToken, nil
}

// tokenUpdateFunc persists a refreshed access token so later invocations
// pick it up instead of refreshing again.
func (u *calendarSyncUsecase) tokenUpdateFunc(userID string) caldomain.TokenUpdateFunc {
	return func(token *oauth2.Token) error {
		credential, err := u.credRepo.Get(userID)
		if err != nil {
			return err
		}
		if credential == nil {
			return ErrNotConnected
		}
		credential.AccessToken = token.AccessToken
		if token.RefreshToken != "" {
			credential.RefreshToken = token.RefreshToken
		}
		credential.TokenExpiry = token.Expiry
		if err := u.credRepo.Save(credential); err != nil {
			log.Printf("[CalendarSync] failed to persist refreshed token for user %s: %v", userID, err)
			return err
		}
		return nil
	}
}

// gcalEventSource adapts the Google Calendar provider client to the
// EventSource interface the worker consumes, resolving tokens per call.
type gcalEventSource struct {
	usecase *calendarSyncUsecase
}

func (s *gcalEventSource) ListEventsPage(ctx context.Context, userID, calendarID string, timeMin, timeMax time.Time, pageToken string) ([]*caldomain.CalendarEvent, string, error) {
	access, refresh, err := s.usecase.requireTokens(userID)
	if err != nil {
		return nil, "", err
	}
	return s.usecase.provider.ListEventsPage(ctx, access, refresh, calendarID, timeMin, timeMax, s.usecase.cfg.SyncPageSize, pageToken, s.usecase.tokenUpdateFunc(userID))
}

func (s *gcalEventSource) EarliestEventStart(ctx context.Context, userID, calendarID string) (time.Time, bool, error) {
	access, refresh, err := s.usecase.requireTokens(userID)
	if err != nil {
		return time.Time{}, false, err
	}
	return s.usecase.provider.EarliestEventStart(ctx, access, refresh, calendarID, s.usecase.tokenUpdateFunc(userID))
}
