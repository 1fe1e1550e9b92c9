package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/assetledger/internal/domain/activity"
	"github.com/rpggio/assetledger/internal/pubsub"
)

// ActivityFeedURI names the resource listing recent outcome notifications.
// Sessions subscribed to it receive resources/updated after every write.
const ActivityFeedURI = "assetledger://activity/recent"

// ActivityFeed streams outcome notifications as they are recorded.
type ActivityFeed interface {
	Subscribe(ctx context.Context) <-chan pubsub.Event[activity.Entry]
}

func registerActivityResource(server *sdkmcp.Server, svc ActivityService) {
	server.AddResource(&sdkmcp.Resource{
		URI:         ActivityFeedURI,
		Name:        "activity_recent",
		Title:       "Recent activity",
		Description: "The latest outcome notifications, newest first. Subscribe to be told about new ones.",
		MIMEType:    "application/json",
	}, func(ctx context.Context, _ *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		entries, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{Limit: defaultActivityLimit})
		if err != nil {
			return nil, err
		}
		result := RecentActivityResult{Entries: make([]ActivityResult, 0, len(entries))}
		for _, e := range entries {
			result.Entries = append(result.Entries, toActivityResult(e))
		}
		data, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		return &sdkmcp.ReadResourceResult{
			Contents: []*sdkmcp.ResourceContents{{
				URI:      ActivityFeedURI,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	})
}

// resourceSubscribeHandler accepts subscriptions to the activity feed only;
// the docs resources never change.
func resourceSubscribeHandler(_ context.Context, req *sdkmcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || req.Params.URI != ActivityFeedURI {
		return fmt.Errorf("%w: only %s accepts subscriptions", ErrInvalidArgument, ActivityFeedURI)
	}
	return nil
}

func resourceUnsubscribeHandler(_ context.Context, req *sdkmcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("%w: resource uri is required", ErrInvalidArgument)
	}
	return nil
}

// ForwardActivity subscribes to feed and notifies subscribed sessions of the
// activity resource for every entry, until ctx is done or the feed closes.
// The subscription is in place when ForwardActivity returns.
func ForwardActivity(ctx context.Context, server *sdkmcp.Server, feed ActivityFeed, logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	events := feed.Subscribe(ctx)
	go func() {
		for ev := range events {
			err := server.ResourceUpdated(ctx, &sdkmcp.ResourceUpdatedNotificationParams{
				URI: ActivityFeedURI,
				Meta: sdkmcp.Meta{
					"event_id": ev.Payload.EventID,
					"kind":     string(ev.Payload.Kind),
					"success":  ev.Payload.Success,
				},
			})
			if err != nil {
				logger.Warn("activity notify failed", "event_id", ev.Payload.EventID, "error", err)
			}
		}
	}()
}
