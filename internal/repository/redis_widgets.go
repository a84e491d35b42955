package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/repository"
)

// RedisWidgetRepository stores each owner's widgets in a hash keyed by
// widget id and the layout as a single JSON document. Deleting a
// widget also drops its layout entry so the two stay in lockstep.
type RedisWidgetRepository struct {
	client *redis.Client
}

func NewRedisWidgetRepository(client *redis.Client) repository.WidgetRepository {
	return &RedisWidgetRepository{client: client}
}

func widgetsKey(userID string) string { return "wefn:widgets:" + userID }
func layoutKey(userID string) string { return "wefn:layout:" + userID }

func (r *RedisWidgetRepository) Create(ctx context.Context, w *models.Widget) (*models.Widget, error) {
	raw, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshal widget: %w", err)
	}
	if err := r.client.HSet(ctx, widgetsKey(w.UserID), w.ID, raw).Err(); err != nil {
		return nil, fmt.Errorf("store widget: %w", err)
	}
	return w, nil
}

func (r *RedisWidgetRepository) Delete(ctx context.Context, userID, widgetID string) error {
	if err := r.client.HDel(ctx, widgetsKey(userID), widgetID).Err(); err != nil {
		return fmt.Errorf("delete widget: %w", err)
	}

	layout, err := r.Layout(ctx, userID)
	if err != nil {
		return err
	}
	pruned := layout[:0]
	for _, entry := range layout {
		if entry.WidgetID != widgetID {
			pruned = append(pruned, entry)
		}
	}
	if len(pruned) != len(layout) {
		return r.UpsertLayout(ctx, userID, pruned)
	}
	return nil
}

func (r *RedisWidgetRepository) ListByUser(ctx context.Context, userID string) ([]*models.Widget, error) {
	raw, err := r.client.HGetAll(ctx, widgetsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list widgets: %w", err)
	}

	widgets := make([]*models.Widget, 0, len(raw))
	for _, v := range raw {
		var w models.Widget
		if err := json.Unmarshal([]byte(v), &w); err != nil {
			return nil, fmt.Errorf("decode widget: %w", err)
		}
		widgets = append(widgets, &w)
	}
	sort.Slice(widgets, func(i, j int) bool {
		if !widgets[i].CreatedAt.Equal(widgets[j].CreatedAt) {
			return widgets[i].CreatedAt.Before(widgets[j].CreatedAt)
		}
		return widgets[i].ID < widgets[j].ID
	})
	return widgets, nil
}

func (r *RedisWidgetRepository) UpsertLayout(ctx context.Context, userID string, layout []models.LayoutEntry) error {
	if layout == nil {
		layout = []models.LayoutEntry{}
	}
	raw, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	if err := r.client.Set(ctx, layoutKey(userID), raw, 0).Err(); err != nil {
		return fmt.Errorf("store layout: %w", err)
	}
	return nil
}

func (r *RedisWidgetRepository) Layout(ctx context.Context, userID string) ([]models.LayoutEntry, error) {
	raw, err := r.client.Get(ctx, layoutKey(userID)).Bytes()
	if err == redis.Nil {
		return []models.LayoutEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	var layout []models.LayoutEntry
	if err := json.Unmarshal(raw, &layout); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return layout, nil
}
