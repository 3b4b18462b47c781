package model

// AlertKind is the tone of a transient user notification.
type AlertKind string

const (
	AlertPositive AlertKind = "positive"
	AlertNegative AlertKind = "negative"
)

// Alert is a fire-and-forget notification such as a browser toast.
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Message string    `json:"message"`
	Symbol  string    `json:"symbol,omitempty"`
}
