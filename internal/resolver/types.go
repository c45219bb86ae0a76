package resolver

import "saas-action-bot/internal/model"

// ResolveInput is the input for Resolve. Namespace is the tenant id.
type ResolveInput struct {
	Key       model.ConversationKey
	Namespace string
	ParamName string
	Visitor   model.VisitorMeta
}
