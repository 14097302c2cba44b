package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarScope is the OAuth scope the sync engine needs. The connection
// status probe reports "needs re-auth" when the stored credential lacks it.
const CalendarScope = calendar.CalendarReadonlyScope

// TokenUpdateFunc is a callback that persists a refreshed token
type TokenUpdateFunc = caldomain.TokenUpdateFunc

type Service struct {
	clientID     string
	clientSecret string
	redirectURI  string
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			fmt.Printf("Failed to update token: %v\n", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret, redirectURI string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
	}
}

func (s *Service) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		RedirectURL:  s.redirectURI,
		Scopes:       []string{CalendarScope},
		Endpoint:     google.Endpoint,
	}
}

// AuthCodeURL builds the Google consent URL. Offline access is required so
// a refresh token is issued and syncs keep working without the user present.
func (s *Service) AuthCodeURL(state string) string {
	return s.oauthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
}

// ExchangeCode completes the OAuth code exchange.
func (s *Service) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauthConfig().Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange authorization code: %v", err)
	}
	return token, nil
}

// calendarService creates a Calendar API client with the user's tokens.
func (s *Service) calendarService(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) (*calendar.Service, error) {
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}

	// Only force refresh if we have a refresh token
	if refreshToken != "" {
		token.Expiry = time.Now()
	}

	tokenSource := s.oauthConfig().TokenSource(ctx, token)

	// Wrap token source to detect refreshes
	wrappedSource := &notifyTokenSource{
		src:      tokenSource,
		current:  token,
		callback: onTokenRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %v", err)
	}

	return srv, nil
}

// ListCalendars retrieves the user's calendar list.
func (s *Service) ListCalendars(ctx context.Context, accessToken, refreshToken string, onTokenRefresh TokenUpdateFunc) ([]*caldomain.CalendarInfo, error) {
	srv, err := s.calendarService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	resp, err := srv.CalendarList.List().Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %v", err)
	}

	calendars := make([]*caldomain.CalendarInfo, 0, len(resp.Items))
	for _, item := range resp.Items {
		calendars = append(calendars, &caldomain.CalendarInfo{
			ID:      item.Id,
			Summary: item.Summary,
			Primary: item.Primary,
		})
	}

	return calendars, nil
}

// ListEventsPage fetches one page of events for a calendar and time range,
// ordered by start time with recurring events expanded to single
// occurrences and soft-deleted entries excluded. Returns the normalized
// events plus the cursor for the next page ("" when this was the last one).
func (s *Service) ListEventsPage(ctx context.Context, accessToken, refreshToken, calendarID string, timeMin, timeMax time.Time, pageSize int64, pageToken string, onTokenRefresh TokenUpdateFunc) ([]*caldomain.CalendarEvent, string, error) {
	srv, err := s.calendarService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, "", err
	}

	call := srv.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		ShowDeleted(false).
		MaxResults(pageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, "", fmt.Errorf("unable to retrieve events: %v", err)
	}

	events := make([]*caldomain.CalendarEvent, 0, len(resp.Items))
	now := time.Now()
	for _, item := range resp.Items {
		events = append(events, NormalizeEvent(item, calendarID, now))
	}

	return events, resp.NextPageToken, nil
}

// EarliestEventStart probes for the start of the oldest event on the
// calendar, used to seed a cold-start sync. Returns ok=false when the
// calendar has no events at all.
func (s *Service) EarliestEventStart(ctx context.Context, accessToken, refreshToken, calendarID string, onTokenRefresh TokenUpdateFunc) (time.Time, bool, error) {
	srv, err := s.calendarService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return time.Time{}, false, err
	}

	farPast := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	resp, err := srv.Events.List(calendarID).
		TimeMin(farPast.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		ShowDeleted(false).
		MaxResults(1).
		Do()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("unable to probe earliest event: %v", err)
	}
	if len(resp.Items) == 0 {
		return time.Time{}, false, nil
	}

	start := eventStartTime(resp.Items[0])
	if start.IsZero() {
		return time.Time{}, false, nil
	}
	return start, true, nil
}

// tokenInfo represents the response from Google's tokeninfo endpoint
type tokenInfo struct {
	Scope     string `json:"scope"`
	ExpiresIn string `json:"expires_in"`
	Error     string `json:"error_description"`
}

// TokenScopes asks Google which scopes an access token actually carries.
func (s *Service) TokenScopes(ctx context.Context, accessToken string) (string, error) {
	probeURL := "https://oauth2.googleapis.com/tokeninfo?access_token=" + url.QueryEscape(accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to probe token info: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token info probe returned status %d", resp.StatusCode)
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("failed to decode token info: %v", err)
	}

	return info.Scope, nil
}
