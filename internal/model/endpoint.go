package model

import "net/http"

// ParamLocation is where a declared endpoint parameter is placed in the request.
type ParamLocation string

const (
	InPath   ParamLocation = "path"
	InQuery  ParamLocation = "query"
	InHeader ParamLocation = "header"
	InBody   ParamLocation = "body"
)

// EndpointParam is a declared parameter of a tenant API operation.
type EndpointParam struct {
	Name        string        `json:"name"`
	In          ParamLocation `json:"in"`
	Required    bool          `json:"required"`
	Type        string        `json:"type,omitempty"`
	Description string        `json:"description,omitempty"`
}

// Endpoint is one parsed operation of a tenant's API.
type Endpoint struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenant_id"`
	Method      string          `json:"method"`
	Path        string          `json:"path"`
	Summary     string          `json:"summary"`
	Description string          `json:"description"`
	Parameters  []EndpointParam `json:"parameters"`
}

// IsWrite reports whether the method carries a request body.
func (e Endpoint) IsWrite() bool {
	switch e.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// Param returns the declared parameter named name.
func (e Endpoint) Param(name string) (EndpointParam, bool) {
	for _, p := range e.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return EndpointParam{}, false
}

// RequiredParams lists the names of required parameters.
func (e Endpoint) RequiredParams() []string {
	var out []string
	for _, p := range e.Parameters {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	return out
}
