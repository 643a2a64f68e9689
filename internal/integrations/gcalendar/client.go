package gcalendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client клиент рабочего календаря техника (Google Calendar)
type Client struct {
	svc        *calendar.Service
	calendarID string
	log        Logger
}

// NewClient создает новый экземпляр клиента календаря.
// Авторизация через OAuth2 refresh token, access token обновляется автоматически.
func NewClient(ctx context.Context, calendarID, clientID, clientSecret, refreshToken string, log Logger) (*Client, error) {
	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{calendar.CalendarScope},
	}

	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	svc, err := calendar.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create calendar service: %v", ErrInternal, err)
	}

	return &Client{
		svc:        svc,
		calendarID: calendarID,
		log:        log,
	}, nil
}

// ListEvents получает события календаря в окне [from, to).
// Повторяющиеся события разворачиваются в отдельные экземпляры.
func (c *Client) ListEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	events := make([]Event, 0)
	pageToken := ""

	for {
		call := c.svc.Events.List(c.calendarID).
			Context(ctx).
			TimeMin(from.Format(time.RFC3339)).
			TimeMax(to.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(250)

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list events: %v", ErrInternal, err)
		}

		for _, item := range resp.Items {
			event, err := c.convertEvent(item)
			if err != nil {
				c.log.Warn("Skipping unparseable calendar event %s: %v", item.Id, err)
				continue
			}
			events = append(events, event)
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return events, nil
}

// CreateEvent создает событие в календаре и возвращает его ID
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (string, error) {
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		ColorId:     input.ColorID,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
		},
	}

	created, err := c.svc.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: failed to create event: %v", ErrInternal, err)
	}

	return created.Id, nil
}

// UpdateEventColor меняет цвет существующего события
func (c *Client) UpdateEventColor(ctx context.Context, eventID, colorID string) error {
	_, err := c.svc.Events.Patch(c.calendarID, eventID, &calendar.Event{ColorId: colorID}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: failed to update event %s: %v", ErrInternal, eventID, err)
	}
	return nil
}

// convertEvent преобразует событие API в локальную модель.
// События на весь день приходят с датой без времени.
func (c *Client) convertEvent(item *calendar.Event) (Event, error) {
	event := Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Cancelled:   item.Status == "cancelled",
		Transparent: item.Transparency == "transparent",
	}

	start, allDay, err := parseEventTime(item.Start)
	if err != nil {
		return Event{}, fmt.Errorf("parse start: %w", err)
	}
	end, _, err := parseEventTime(item.End)
	if err != nil {
		return Event{}, fmt.Errorf("parse end: %w", err)
	}

	event.Start = start
	event.End = end
	event.AllDay = allDay

	return event, nil
}

func parseEventTime(edt *calendar.EventDateTime) (time.Time, bool, error) {
	if edt == nil {
		return time.Time{}, false, fmt.Errorf("missing event time")
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		return t, false, err
	}

	loc := time.Local
	if edt.TimeZone != "" {
		if parsed, err := time.LoadLocation(edt.TimeZone); err == nil {
			loc = parsed
		}
	}
	t, err := time.ParseInLocation("2006-01-02", edt.Date, loc)
	return t, true, err
}
