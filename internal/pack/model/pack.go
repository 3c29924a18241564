package model

import "encoding/json"

// ModuleKey identifies a platform feature module that a pack can activate
// for a tenant.
type ModuleKey string

const (
	ModuleCore        ModuleKey = "core"
	ModuleDocuments   ModuleKey = "documents"
	ModuleONRCartorio ModuleKey = "onr_cartorio"
	ModulePartners    ModuleKey = "partners"
	ModuleAIAutomation ModuleKey = "ai_automation"
	ModuleBIAnalytics ModuleKey = "bi_analytics"
	ModuleCRM         ModuleKey = "crm"
	ModuleFinancial   ModuleKey = "financial"
	ModuleTimeTracking ModuleKey = "time_tracking"
	ModuleClientPortal ModuleKey = "client_portal"
	ModulePDV         ModuleKey = "pdv"
	ModuleProducts    ModuleKey = "products"
	ModuleStock       ModuleKey = "stock"
	ModulePurchases   ModuleKey = "purchases"
	ModuleDelivery    ModuleKey = "delivery"
)

// AllModuleKeys is the closed set of module keys the platform knows about.
// A pack's module list must be a subset of this set.
var AllModuleKeys = map[ModuleKey]bool{
	ModuleCore:         true,
	ModuleDocuments:    true,
	ModuleONRCartorio:  true,
	ModulePartners:     true,
	ModuleAIAutomation: true,
	ModuleBIAnalytics:  true,
	ModuleCRM:          true,
	ModuleFinancial:    true,
	ModuleTimeTracking: true,
	ModuleClientPortal: true,
	ModulePDV:          true,
	ModuleProducts:     true,
	ModuleStock:        true,
	ModulePurchases:    true,
	ModuleDelivery:     true,
}

// IsValidModuleKey reports whether key belongs to the closed module enumeration.
func IsValidModuleKey(key ModuleKey) bool {
	return AllModuleKeys[key]
}

// Priority represents the urgency attached to deadline rules and task templates.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityUrgent   Priority = "urgent"
	PriorityCritical Priority = "critical"
)

// ItemKind distinguishes catalog entries between services and physical products.
type ItemKind string

const (
	ItemKindService ItemKind = "service"
	ItemKindProduct ItemKind = "product"
)

// PackMetadata describes a template pack for selection UIs.
type PackMetadata struct {
	Key         string `json:"key"`         // Stable pack identifier, e.g. "juridico"
	Name        string `json:"name"`        // Human-readable pack name
	Description string `json:"description"` // Short description for selection UIs
	Icon        string `json:"icon"`        // Icon identifier
	Color       string `json:"color"`       // Hex display color
	Version     string `json:"version"`     // Pack content version
}

// PackTenantConfig carries tenant-level presets a pack applies on activation.
type PackTenantConfig struct {
	Specialty          string `json:"specialty"`            // Business vertical, e.g. "juridico"
	DefaultAgentPersona string `json:"default_agent_persona"` // Default persona for assistant features
	ShowServiceBoard   bool   `json:"show_service_board"`   // Whether the kanban board is shown by default
	ShowCatalog        bool   `json:"show_catalog"`         // Whether the service catalog is shown by default
}

// TemplatePack is a portable, immutable bundle of business configuration for
// one vertical. All cross-entity pointers inside a pack are symbolic ref_key
// strings; they only become real identifiers when the pack is applied to a
// tenant by the resolver.
type TemplatePack struct {
	Metadata      PackMetadata           `json:"metadata"`
	TenantConfig  PackTenantConfig       `json:"tenant_config"`
	Modules       []ModuleKey            `json:"modules"`
	Categories    []PackServiceCategory  `json:"categories"`
	ServiceTypes  []PackServiceType      `json:"service_types"`
	Workflows     []PackWorkflowTemplate `json:"workflows"`
	DeadlineRules []PackDeadlineRule     `json:"deadline_rules"`
	TaskTemplates []PackStepTaskTemplate `json:"task_templates"`
	StepForms     []PackStepForm         `json:"step_forms"`
	Documents     []PackDocumentTemplate `json:"documents"`
	Roles         []PackRole             `json:"roles"`
	Services      []PackService          `json:"services"`
}

// PackServiceCategory groups service types for display.
type PackServiceCategory struct {
	RefKey    string `json:"ref_key"` // Unique within the pack
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
	Active    bool   `json:"active"`
}

// PackServiceType is a kind of billable or workflowable service.
type PackServiceType struct {
	RefKey      string  `json:"ref_key"`                // Unique within the pack
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Color       string  `json:"color,omitempty"`
	CategoryRef string  `json:"category_ref"`           // Must resolve to a PackServiceCategory.RefKey
	WorkflowRef *string `json:"workflow_ref,omitempty"` // Optional, must resolve to a PackWorkflowTemplate.RefKey
	EntityTable *string `json:"entity_table,omitempty"` // Optional external domain table, e.g. "processos"
}

// PackWorkflowTemplate is a directed graph of steps and named transitions
// describing a business process.
type PackWorkflowTemplate struct {
	RefKey      string                   `json:"ref_key"` // Unique within the pack
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Steps       []PackWorkflowStep       `json:"steps"`
	Transitions []PackWorkflowTransition `json:"transitions"`
}

// PackWorkflowStep is one node of a workflow template graph.
// RefKey is unique within the owning template only, not across the pack:
// two templates may both declare a step "s01".
type PackWorkflowStep struct {
	RefKey      string `json:"ref_key"`
	Name        string `json:"name"`
	StepOrder   int    `json:"step_order"`   // Display ordering hint; 1 marks the entry step
	IsTerminal  bool   `json:"is_terminal"`  // Terminal steps may still have outgoing transitions (renewal cycles)
	OCREnabled  bool   `json:"ocr_enabled,omitempty"`
	HasProtocol bool   `json:"has_protocol,omitempty"`
}

// PackWorkflowTransition is a directed edge between two steps of the same
// workflow template.
type PackWorkflowTransition struct {
	FromStepRef   string          `json:"from_step_ref"` // Must resolve within the same template's steps
	ToStepRef     string          `json:"to_step_ref"`   // Must resolve within the same template's steps
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	ConditionJSON json.RawMessage `json:"condition_json,omitempty"` // Opaque condition passed through to the workflow engine
}

// PackDeadlineRule attaches an SLA to a workflow step. StepRef is pack-scoped:
// it may name a step in any of the pack's workflow templates.
type PackDeadlineRule struct {
	StepRef          string   `json:"step_ref"`
	DaysToComplete   int      `json:"days_to_complete"` // 0 means same-day / critical
	Priority         Priority `json:"priority"`
	NotifyBeforeDays int      `json:"notify_before_days"`
}

// PackStepTaskTemplate is a checklist item auto-instantiated when a process
// enters a step.
type PackStepTaskTemplate struct {
	StepRef         string   `json:"step_ref"` // Pack-scoped step reference
	Title           string   `json:"title"`
	IsRequired      bool     `json:"is_required"`
	Priority        Priority `json:"priority"`
	TemplateOrder   int      `json:"template_order"` // Creation order among siblings of the same step
	AssignedRoleRef *string  `json:"assigned_role_ref,omitempty"` // Optional, must resolve to a PackRole.RefKey
	DueDays         *int     `json:"due_days,omitempty"`
}

// PackStepForm is a dynamic form schema shown on step entry.
type PackStepForm struct {
	StepRef            string          `json:"step_ref"` // Pack-scoped step reference
	Name               string          `json:"name"`
	FormSchemaJSON     json.RawMessage `json:"form_schema_json"` // Field list: key, label, type, options
	IsRequired         bool            `json:"is_required"`
	CanBlockTransition bool            `json:"can_block_transition"` // Enforced by the external workflow engine, passed through unchanged
}

// PackDocumentTemplate is an HTML document with {{variable}} placeholders.
type PackDocumentTemplate struct {
	RefKey      string                     `json:"ref_key"` // Unique within the pack
	Name        string                     `json:"name"`
	Category    string                     `json:"category"`
	ContentHTML string                     `json:"content_html"`
	Variables   map[string]VariableBinding `json:"variables"`
}

// PackRole is a named permission bundle. Permission codes are not validated
// against the platform permission registry here; that is the registry
// collaborator's responsibility.
type PackRole struct {
	RefKey      string   `json:"ref_key"` // Unique within the pack
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// PackService is a catalog entry (service or product).
type PackService struct {
	RefKey        string                   `json:"ref_key"` // Unique within the pack; compositions resolve against it
	Name          string                   `json:"name"`
	TypeRef       string                   `json:"type_ref"` // Must resolve to a PackServiceType.RefKey
	ItemKind      ItemKind                 `json:"item_kind"`
	SellPrice     float64                  `json:"sell_price"`
	CostPrice     float64                  `json:"cost_price"`
	TrackStock    bool                     `json:"track_stock,omitempty"`
	IsComposition bool                     `json:"is_composition,omitempty"`
	Compositions  []PackServiceComposition `json:"compositions,omitempty"`
}

// PackServiceComposition links a composite service to one of its components.
type PackServiceComposition struct {
	ChildRef string  `json:"child_ref"` // Must resolve to a sibling PackService.RefKey
	Quantity float64 `json:"quantity"`
}
