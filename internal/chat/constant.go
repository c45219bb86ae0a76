package chat

// MsgRateLimited is returned instead of an error status when a tenant exceeds its budget.
const MsgRateLimited = "You're sending messages a little too quickly. Please wait a moment and try again."

// MaxEventBytes bounds the webhook body read.
const MaxEventBytes = 1 << 20
