package orchestrator

import "time"

// Log prefixes
const (
	LogPrefixHandleEvent  = "internal.orchestrator.HandleEvent"
	LogPrefixHandleMsg    = "internal.orchestrator.handleMessage"
	LogPrefixPipeline     = "internal.orchestrator.runPipeline"
	LogPrefixContinuation = "internal.orchestrator.continueInBackground"
	LogPrefixTrigger      = "internal.orchestrator.handleTrigger"
	LogPrefixSession      = "internal.orchestrator.startSession"
)

// Visitor-facing messages
const (
	MsgInterim                = "I'm working on your request. It is taking a little longer than usual, I'll get back to you shortly."
	MsgStillWorking           = "I'm still working on your previous request. Please wait a moment."
	MsgApology                = "Sorry, something went wrong while handling your request. Please try again."
	MsgGreeting               = "Hi! How can I help you today?"
	MsgConversational         = "How can I help you today?"
	MsgNoMatch                = "I couldn't find an action that matches your request. Could you describe what you'd like to do?"
	MsgGenericClarification   = "Could you give me a bit more detail about what you'd like to do?"
	MsgRephrase               = "I'm having trouble understanding your request. Could you please rephrase it?"
	MsgMissingParam           = "Could you please provide your %s?"
	MsgActionDone             = "Done! Your request was completed successfully."
	MsgActionResult           = "Done! Here's what I got back:\n%s"
	MsgActionAuthFailure      = "I couldn't access your account on the connected service. An administrator may need to reconnect it."
	MsgActionUpstreamFailure  = "The service returned an error while processing your request. Please try again later."
	MsgActionTransportFailure = "I couldn't reach the service right now. Please try again in a moment."
)

// Defaults
const (
	DefaultResponseDeadline    = 4 * time.Second
	DefaultGreetingTimeout     = 2 * time.Second
	DefaultMaxClarifications   = 2
	DefaultConfidenceThreshold = 0.8
	DefaultPushTimeout         = 10 * time.Second
	DefaultSessionWriteWait    = 2 * time.Minute
	MaxResultChars             = 1500

	lockRetryInterval = 25 * time.Millisecond
)

// Policy branches, used as metric labels.
const (
	branchGreeting       = "greeting"
	branchRetrievalError = "retrieval_error"
	branchNoMatch        = "no_match"
	branchDecisionError  = "decision_error"
	branchConversational = "conversational"
	branchMissingParams  = "missing_params"
	branchLowConfidence  = "low_confidence"
	branchExhausted      = "clarification_exhausted"
	branchExecute        = "execute"
)
