package service

import (
	"context"

	"github.com/devfolio/devfolio/pkg/slogx"
)

// requireOwner checks that the actor owns the resource. The denial is
// logged with enough detail to audit, but callers map ErrNotOwner to the
// same response as a missing resource so existence never leaks.
func requireOwner(ctx context.Context, actorID, ownerID, kind, id string) error {
	if actorID == ownerID {
		return nil
	}

	slogx.FromContext(ctx).Warn("ownership denied",
		"actor_id", actorID,
		"owner_id", ownerID,
		"resource_kind", kind,
		"resource_id", id,
	)
	return ErrNotOwner
}
