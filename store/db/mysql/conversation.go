package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/forkful/forkful/store"
)

func (d *DB) UpsertConversation(ctx context.Context, upsert *store.Conversation) (*store.Conversation, error) {
	raw, err := json.Marshal(upsert.Messages)
	if err != nil {
		return nil, err
	}
	stmt := "INSERT INTO `conversation` (`id`, `user_id`, `title`, `messages`, `updated_ts`) VALUES (?, ?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE `title` = VALUES(`title`), `messages` = VALUES(`messages`), `updated_ts` = VALUES(`updated_ts`)"
	if _, err := d.db.ExecContext(ctx, stmt, upsert.ID, upsert.UserID, upsert.Title, string(raw), upsert.UpdatedTs); err != nil {
		return nil, err
	}
	return upsert, nil
}

func (d *DB) ListConversations(ctx context.Context, find *store.FindConversation) ([]*store.Conversation, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "`id` = ?"), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "`user_id` = ?"), append(args, *v)
	}
	query := fmt.Sprintf(
		"SELECT `id`, `user_id`, `title`, `messages`, `updated_ts` FROM `conversation` WHERE %s ORDER BY `updated_ts` DESC",
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Conversation
	for rows.Next() {
		c := &store.Conversation{}
		var raw string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &raw, &c.UpdatedTs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &c.Messages); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (d *DB) GetConversation(ctx context.Context, find *store.FindConversation) (*store.Conversation, error) {
	list, err := d.ListConversations(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) DeleteConversation(ctx context.Context, id, userID string) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM `conversation` WHERE `id` = ? AND `user_id` = ?", id, userID)
	return err
}
