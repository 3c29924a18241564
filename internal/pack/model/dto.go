package model

import "github.com/google/uuid"

// PackSummary is the lightweight projection of a pack consumed by the pack
// selection UI. It never includes nested entity arrays.
type PackSummary struct {
	Key              string      `json:"key"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Icon             string      `json:"icon"`
	Color            string      `json:"color"`
	Version          string      `json:"version"`
	ServiceTypeCount int         `json:"serviceTypeCount"`
	WorkflowCount    int         `json:"workflowCount"`
	Modules          []ModuleKey `json:"modules"`
}

// ApplyResultDTO reports the outcome of applying a pack to a tenant.
type ApplyResultDTO struct {
	ApplyID      uuid.UUID      `json:"applyId"`
	TenantID     uuid.UUID      `json:"tenantId"`
	PackKey      string         `json:"packKey"`
	RecordCounts map[string]int `json:"recordCounts"`
	TotalRecords int            `json:"totalRecords"`
	Modules      []ModuleKey    `json:"modules"`
}
