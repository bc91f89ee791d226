package cli

import (
	"time"

	"github.com/lu-zhengda/tagside/internal/app"
	"github.com/lu-zhengda/tagside/internal/domain"
	"github.com/lu-zhengda/tagside/internal/sidebar"
)

// ---------------------------------------------------------------------------
// Account JSON types (account list)
// ---------------------------------------------------------------------------

type jsonAccount struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toJSONAccounts(accounts []domain.Account) []jsonAccount {
	out := make([]jsonAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, jsonAccount{
			ID:          a.ID,
			Email:       a.Email,
			DisplayName: a.DisplayName,
			CreatedAt:   a.CreatedAt.Format(time.DateOnly),
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Tag JSON types (tags list)
// ---------------------------------------------------------------------------

type jsonTag struct {
	ID           int64     `json:"id"`
	Kind         string    `json:"kind,omitempty"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Display      string    `json:"display"`
	DisplayOrder int       `json:"display_order"`
	Icon         string    `json:"icon,omitempty"`
	LabelColor   string    `json:"label_color,omitempty"`
	All          int       `json:"all"`
	New          int       `json:"new"`
	SumNew       int       `json:"sum_new,omitempty"`
	Unread       int       `json:"unread"`
	Subtags      []jsonTag `json:"subtags,omitempty"`
}

func toJSONTags(tags []domain.Tag) []jsonTag {
	out := make([]jsonTag, 0, len(tags))
	for _, t := range tags {
		jt := toJSONTag(t)
		kind := sidebar.KindOf(t.Slug)
		jt.Kind = kind.String()
		jt.Unread = sidebar.UnreadCount(kind, t.Stats)
		if len(t.Subtags) > 0 {
			jt.Subtags = make([]jsonTag, 0, len(t.Subtags))
			for _, sub := range t.Subtags {
				js := toJSONTag(sub)
				js.Unread = sidebar.SubtagUnreadCount(sub.Stats)
				jt.Subtags = append(jt.Subtags, js)
			}
		}
		out = append(out, jt)
	}
	return out
}

func toJSONTag(t domain.Tag) jsonTag {
	return jsonTag{
		ID:           t.ID,
		Slug:         t.Slug,
		Name:         t.Name,
		Display:      string(t.Display),
		DisplayOrder: t.DisplayOrder,
		Icon:         t.Icon,
		LabelColor:   t.LabelColor,
		All:          t.Stats.All,
		New:          t.Stats.New,
		SumNew:       t.Stats.SumNew,
	}
}

// ---------------------------------------------------------------------------
// Action JSON types (account add/remove, tags, messages, import)
// ---------------------------------------------------------------------------

type jsonAction struct {
	OK        bool   `json:"ok"`
	Action    string `json:"action"`
	Email     string `json:"email,omitempty"`
	AccountID string `json:"account_id,omitempty"`
	TagID     int64  `json:"tag_id,omitempty"`
	Slug      string `json:"slug,omitempty"`
	Collapsed *bool  `json:"collapsed,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Read      *bool  `json:"read,omitempty"`
}

type jsonImport struct {
	OK          bool   `json:"ok"`
	AccountID   string `json:"account_id"`
	TagsCreated int    `json:"tags_created"`
	Messages    int    `json:"messages"`
}

func toJSONImport(accountID string, res app.ImportResult) jsonImport {
	return jsonImport{
		OK:          true,
		AccountID:   accountID,
		TagsCreated: res.TagsCreated,
		Messages:    res.Messages,
	}
}
