package dashboard

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/core/stats"
	"github.com/trezcool/masomo-dashboard/core/view"
)

type MessagingData struct {
	Inbox    []school.Message `json:"inbox"`
	Sent     []school.Message `json:"sent"`
	Contacts []school.User    `json:"contacts"`
	Unread   int              `json:"unread"`
	Failures []string         `json:"failures,omitempty"`
}

type MessagingView struct {
	deps  Deps
	model *view.Model[MessagingData]

	mu     sync.Mutex
	viewer Viewer
}

func NewMessagingView(deps Deps) *MessagingView {
	return &MessagingView{deps: deps, model: view.NewModel[MessagingData]()}
}

func newestFirst(msgs []school.Message) {
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].SentAt.After(msgs[j].SentAt) })
}

// Load fetches the viewer's inbox, sent box and the users they can write to.
func (v *MessagingView) Load(ctx context.Context, viewer Viewer) (view.Snapshot[MessagingData], error) {
	v.mu.Lock()
	v.viewer = viewer
	v.mu.Unlock()

	return v.model.Load(ctx, func(ctx context.Context) (MessagingData, error) {
		var data MessagingData
		failures := view.Parallel(ctx,
			view.NewCall("inbox", func(ctx context.Context) (err error) {
				data.Inbox, err = v.deps.API.ListMessages(ctx, school.MessageFilter{UserID: viewer.ID, Box: "inbox"})
				return err
			}),
			view.NewCall("sent", func(ctx context.Context) (err error) {
				data.Sent, err = v.deps.API.ListMessages(ctx, school.MessageFilter{UserID: viewer.ID, Box: "sent"})
				return err
			}),
			view.NewCall("contacts", func(ctx context.Context) (err error) {
				data.Contacts, err = v.deps.API.ListUsers(ctx, school.UserFilter{})
				return err
			}),
		)
		var err error
		if data.Failures, err = settle(failures, 3, "inbox"); err != nil {
			return data, err
		}

		data.Contacts = stats.Filter(data.Contacts, func(u school.User) bool { return u.ID != viewer.ID })
		newestFirst(data.Inbox)
		newestFirst(data.Sent)
		data.Unread = stats.UnreadCount(data.Inbox, viewer.ID)
		return data, nil
	})
}

func (v *MessagingView) Reload(ctx context.Context) (view.Snapshot[MessagingData], error) {
	v.mu.Lock()
	viewer := v.viewer
	v.mu.Unlock()
	return v.Load(ctx, viewer)
}

func (v *MessagingView) Snapshot() view.Snapshot[MessagingData] {
	return v.model.Snapshot()
}

func (v *MessagingView) Send(ctx context.Context, nm school.NewMessage) (view.Snapshot[MessagingData], error) {
	if err := nm.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	if _, err := v.deps.API.SendMessage(ctx, nm); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "sending message")
	}
	return v.Reload(ctx)
}

// MarkRead marks one inbox message read in place.
func (v *MessagingView) MarkRead(ctx context.Context, id string) (view.Snapshot[MessagingData], error) {
	if err := v.deps.API.MarkMessageRead(ctx, id); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "marking message read")
	}
	v.mu.Lock()
	viewer := v.viewer
	v.mu.Unlock()
	return v.model.Update(func(data *MessagingData) {
		data.Inbox = append([]school.Message(nil), data.Inbox...)
		for i := range data.Inbox {
			if data.Inbox[i].ID == id {
				data.Inbox[i].IsRead = true
			}
		}
		data.Unread = stats.UnreadCount(data.Inbox, viewer.ID)
	}), nil
}

func (v *MessagingView) Delete(ctx context.Context, id string) (view.Snapshot[MessagingData], error) {
	if err := v.deps.API.DeleteMessage(ctx, id); err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "deleting message")
	}
	return v.Reload(ctx)
}
