package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel defines the base model structure with common fields for resolved
// pack records.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;column:id;not null;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"type:timestamptz;column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz;column:updated_at;not null" json:"updatedAt"`
}

// BeforeCreate is a GORM hook that is triggered before a new record is created.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID, err = uuid.NewRandom()
		if err != nil {
			return
		}
	}
	base.CreatedAt = time.Now().UTC()
	base.UpdatedAt = time.Now().UTC()
	return
}

// BeforeUpdate is a GORM hook that is triggered before an existing record is updated.
func (base *BaseModel) BeforeUpdate(tx *gorm.DB) (err error) {
	base.UpdatedAt = time.Now().UTC()
	return
}

// ServiceCategory is a resolved, tenant-scoped service category row.
type ServiceCategory struct {
	BaseModel
	TenantID  uuid.UUID `gorm:"type:uuid;column:tenant_id;index;not null" json:"tenantId"`
	Name      string    `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Color     string    `gorm:"type:varchar(20);column:color" json:"color"`
	Icon      string    `gorm:"type:varchar(100);column:icon" json:"icon"`
	SortOrder int       `gorm:"type:int;column:sort_order;not null" json:"sortOrder"`
	Active    bool      `gorm:"type:boolean;column:active;not null;default:true" json:"active"`
}

func (c *ServiceCategory) TableName() string {
	return "service_categories"
}

// ServiceType is a resolved, tenant-scoped service type row.
type ServiceType struct {
	BaseModel
	TenantID           uuid.UUID  `gorm:"type:uuid;column:tenant_id;index;not null" json:"tenantId"`
	CategoryID         uuid.UUID  `gorm:"type:uuid;column:category_id;not null" json:"categoryId"`
	WorkflowTemplateID *uuid.UUID `gorm:"type:uuid;column:workflow_template_id" json:"workflowTemplateId,omitempty"`
	Name               string     `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Description        string     `gorm:"type:text;column:description" json:"description,omitempty"`
	Icon               string     `gorm:"type:varchar(100);column:icon" json:"icon,omitempty"`
	Color              string     `gorm:"type:varchar(20);column:color" json:"color,omitempty"`
	EntityTable        *string    `gorm:"type:varchar(100);column:entity_table" json:"entityTable,omitempty"`
}

func (t *ServiceType) TableName() string {
	return "service_types"
}

// WorkflowTemplate is a resolved, tenant-scoped workflow template row.
type WorkflowTemplate struct {
	BaseModel
	TenantID    uuid.UUID `gorm:"type:uuid;column:tenant_id;index;not null" json:"tenantId"`
	Name        string    `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Description string    `gorm:"type:text;column:description" json:"description,omitempty"`
}

func (w *WorkflowTemplate) TableName() string {
	return "workflow_templates"
}

// WorkflowStep is a resolved workflow step row belonging to one template.
type WorkflowStep struct {
	BaseModel
	TenantID           uuid.UUID `gorm:"type:uuid;column:tenant_id;index;not null" json:"tenantId"`
	WorkflowTemplateID uuid.UUID `gorm:"type:uuid;column:workflow_template_id;index;not null" json:"workflowTemplateId"`
	Name               string    `gorm:"type:varchar(255);column:name;not null" json:"name"`
	StepOrder          int       `gorm:"type:int;column:step_order;not null" json:"stepOrder"` // Display ordering only
	IsTerminal         bool      `gorm:"type:boolean;column:is_terminal;not null" json:"isTerminal"`
	OCREnabled         bool      `gorm:"type:boolean;column:ocr_enabled;not null;default:false" json:"ocrEnabled"`
	HasProtocol        bool      `gorm:"type:boolean;column:has_protocol;not null;default:false" json:"hasProtocol"`
}

func (s *WorkflowStep) TableName() string {
	return "workflow_steps"
}

// WorkflowTransition is a resolved directed edge between two steps of the
// same workflow template.
type WorkflowTransition struct {
	BaseModel
	TenantID           uuid.UUID       `gorm:"type:uuid;column:tenant_id;index;not null" json:"tenantId"`
	WorkflowTemplateID uuid.UUID       `gorm:"type:uuid;column:workflow_template_id;index;not null" json:"workflowTemplateId"`
	FromStepID         uuid.UUID       `gorm:"type:uuid;column:from_step_id;not null" json:"fromStepId"`
	ToStepID           uuid.UUID       `gorm:"type:uuid;column:to_step_id;not null" json:"toStepId"`
	Name               string          `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Description        string          `gorm:"type:text;column:description" json:"description,omitempty"`
	ConditionJSON      json.RawMessage `gorm:"type:jsonb;column:condition_json" json:"conditionJson,omitempty"`
}

func (t *WorkflowTransition) TableName() string {
	return "workflow_transitions"
}

// DeadlineRule is a resolved SLA binding attached to a workflow step.
type DeadlineRule struct {
	BaseModel
	TenantID         uuid.UUID `gorm:"type:uuid;column:tenant_id;index;not null" json:"tenantId"`
	StepID           uuid.UUID `gorm:"type:uuid;column:step_id;not null" json:"stepId"`
	DaysToComplete   int       `gorm:"type:int;column:days_to_complete;not null" json:"daysToComplete"`
	Priority         Priority  `gorm:"type:varchar(20);column:priority;not null" json:"priority"`
	NotifyBeforeDays int       `gorm:"type:int;column:notify_before_days;not null" json:"notifyBeforeDays"`
}

func (d *DeadlineRule) TableName() string {
	return "deadline_rules"
}

// StepTaskTemplate is a resolved checklist item template for a workflow step.
type StepTaskTemplate struct {
	BaseModel
	TenantID       uuid.UUID  `gorm:"type:uuid;column:tenant_id;index;not null" json:"tenantId"`
	StepID         uuid.UUID  `gorm:"type:uuid;column:step_id;not null" json:"stepId"`
	Title          string     `gorm:"type:varchar(255);column:title;not null" json:"title"`
	IsRequired     bool       `gorm:"type:boolean;column:is_required;not null" json:"isRequired"`
	Priority       Priority   `gorm:"type:varchar(20);column:priority;not null" json:"priority"`
	TemplateOrder  int        `gorm:"type:int;column:template_order;not null" json:"templateOrder"`
	AssignedRoleID *uuid.UUID `gorm:"type:uuid;column:assigned_role_id" json:"assignedRoleId,omitempty"`
	DueDays        *int       `gorm:"type:int;column:due_days" json:"dueDays,omitempty"`
}

func (t *StepTaskTemplate) TableName() string {
	return "step_task_templates"
}

// StepForm is a resolved dynamic form schema shown on step entry.
type StepForm struct {
	BaseModel
	TenantID           uuid.UUID       `gorm:"type:uuid;column:tenant_id;index;not null" json:"tenantId"`
	StepID             uuid.UUID       `gorm:"type:uuid;column:step_id;not null" json:"stepId"`
	Name               string          `gorm:"type:varchar(255);column:name;not null" json:"name"`
	FormSchemaJSON     json.RawMessage `gorm:"type:jsonb;column:form_schema_json;not null" json:"formSchemaJson"`
	IsRequired         bool            `gorm:"type:boolean;column:is_required;not null" json:"isRequired"`
	CanBlockTransition bool            `gorm:"type:boolean;column:can_block_transition;not null" json:"canBlockTransition"`
}

func (f *StepForm) TableName() string {
	return "step_forms"
}

// DocumentTemplate is a resolved, tenant-scoped HTML document template.
type DocumentTemplate struct {
	BaseModel
	TenantID    uuid.UUID                  `gorm:"type:uuid;column:tenant_id;index;not null" json:"tenantId"`
	Name        string                     `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Category    string                     `gorm:"type:varchar(100);column:category" json:"category"`
	ContentHTML string                     `gorm:"type:text;column:content_html;not null" json:"contentHtml"`
	Variables   map[string]VariableBinding `gorm:"type:jsonb;column:variables;serializer:json" json:"variables"`
}

func (d *DocumentTemplate) TableName() string {
	return "document_templates"
}

// Role is a resolved, tenant-scoped permission bundle.
type Role struct {
	BaseModel
	TenantID    uuid.UUID `gorm:"type:uuid;column:tenant_id;index;not null" json:"tenantId"`
	Name        string    `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Permissions []string  `gorm:"type:jsonb;column:permissions;serializer:json;not null" json:"permissions"`
}

func (r *Role) TableName() string {
	return "roles"
}

// Service is a resolved, tenant-scoped catalog entry.
type Service struct {
	BaseModel
	TenantID      uuid.UUID `gorm:"type:uuid;column:tenant_id;index;not null" json:"tenantId"`
	ServiceTypeID uuid.UUID `gorm:"type:uuid;column:service_type_id;not null" json:"serviceTypeId"`
	Name          string    `gorm:"type:varchar(255);column:name;not null" json:"name"`
	ItemKind      ItemKind  `gorm:"type:varchar(20);column:item_kind;not null" json:"itemKind"`
	SellPrice     float64   `gorm:"type:numeric;column:sell_price;not null" json:"sellPrice"`
	CostPrice     float64   `gorm:"type:numeric;column:cost_price;not null" json:"costPrice"`
	TrackStock    bool      `gorm:"type:boolean;column:track_stock;not null;default:false" json:"trackStock"`
	IsComposition bool      `gorm:"type:boolean;column:is_composition;not null;default:false" json:"isComposition"`
}

func (s *Service) TableName() string {
	return "services"
}

// ServiceComposition links a composite service to one of its component services.
type ServiceComposition struct {
	BaseModel
	TenantID       uuid.UUID `gorm:"type:uuid;column:tenant_id;index;not null" json:"tenantId"`
	ServiceID      uuid.UUID `gorm:"type:uuid;column:service_id;not null" json:"serviceId"`
	ChildServiceID uuid.UUID `gorm:"type:uuid;column:child_service_id;not null" json:"childServiceId"`
	Quantity       float64   `gorm:"type:numeric;column:quantity;not null" json:"quantity"`
}

func (c *ServiceComposition) TableName() string {
	return "service_compositions"
}

// ResolvedBundle is the output of applying a pack to a tenant: one slice of
// fully rewritten records per table, listed in foreign-key dependency order so
// a bulk-insert collaborator can persist them front to back.
type ResolvedBundle struct {
	TenantID            uuid.UUID            `json:"tenantId"`
	PackKey             string               `json:"packKey"`
	Categories          []ServiceCategory    `json:"serviceCategories"`
	WorkflowTemplates   []WorkflowTemplate   `json:"workflowTemplates"`
	WorkflowSteps       []WorkflowStep       `json:"workflowSteps"`
	ServiceTypes        []ServiceType        `json:"serviceTypes"`
	WorkflowTransitions []WorkflowTransition `json:"workflowTransitions"`
	DeadlineRules       []DeadlineRule       `json:"deadlineRules"`
	StepTaskTemplates   []StepTaskTemplate   `json:"stepTaskTemplates"`
	StepForms           []StepForm           `json:"stepForms"`
	DocumentTemplates   []DocumentTemplate   `json:"documentTemplates"`
	Roles               []Role               `json:"roles"`
	Services            []Service            `json:"services"`
	ServiceCompositions []ServiceComposition `json:"serviceCompositions"`
}

// RecordCounts returns the number of resolved records per table, keyed by
// table name. Used for apply results and the apply log.
func (b *ResolvedBundle) RecordCounts() map[string]int {
	return map[string]int{
		"service_categories":   len(b.Categories),
		"workflow_templates":   len(b.WorkflowTemplates),
		"workflow_steps":       len(b.WorkflowSteps),
		"service_types":        len(b.ServiceTypes),
		"workflow_transitions": len(b.WorkflowTransitions),
		"deadline_rules":       len(b.DeadlineRules),
		"step_task_templates":  len(b.StepTaskTemplates),
		"step_forms":           len(b.StepForms),
		"document_templates":   len(b.DocumentTemplates),
		"roles":                len(b.Roles),
		"services":             len(b.Services),
		"service_compositions": len(b.ServiceCompositions),
	}
}

// TotalRecords returns the total number of records in the bundle.
func (b *ResolvedBundle) TotalRecords() int {
	total := 0
	for _, n := range b.RecordCounts() {
		total += n
	}
	return total
}
