package registry

import (
	"encoding/json"

	"github.com/OpenVertical/vertical/internal/pack/model"
)

// juridicoPack configures legal-services tenants: litigation and contract
// workflows, fatal-deadline SLAs and the standard legal document templates.
func juridicoPack() *model.TemplatePack {
	return &model.TemplatePack{
		Metadata: model.PackMetadata{
			Key:         "juridico",
			Name:        "Jurídico",
			Description: "Escritórios de advocacia: processos judiciais, contratos e pareceres.",
			Icon:        "scale",
			Color:       "#92400E",
			Version:     "1.2.0",
		},
		TenantConfig: model.PackTenantConfig{
			Specialty:           "juridico",
			DefaultAgentPersona: "advogado",
			ShowServiceBoard:    true,
			ShowCatalog:         false,
		},
		Modules: []model.ModuleKey{
			model.ModuleCore,
			model.ModuleDocuments,
			model.ModuleCRM,
			model.ModuleFinancial,
			model.ModuleTimeTracking,
			model.ModuleClientPortal,
			model.ModuleAIAutomation,
			model.ModuleONRCartorio,
		},
		Categories: []model.PackServiceCategory{
			{RefKey: "cat_contencioso", Name: "Contencioso", Color: "#92400E", Icon: "gavel", SortOrder: 1, Active: true},
			{RefKey: "cat_consultivo", Name: "Consultivo", Color: "#0F766E", Icon: "book-open", SortOrder: 2, Active: true},
			{RefKey: "cat_extrajudicial", Name: "Extrajudicial", Color: "#4338CA", Icon: "file-signature", SortOrder: 3, Active: true},
		},
		ServiceTypes: []model.PackServiceType{
			{
				RefKey:      "tp_processo",
				Name:        "Processo Judicial",
				Description: "Acompanhamento de processo em todas as instâncias.",
				Icon:        "gavel",
				Color:       "#92400E",
				CategoryRef: "cat_contencioso",
				WorkflowRef: strPtr("wf_processo_judicial"),
				EntityTable: strPtr("processos"),
			},
			{
				RefKey:      "tp_contrato",
				Name:        "Contrato",
				Description: "Elaboração e gestão de contratos com renovação.",
				Icon:        "file-signature",
				Color:       "#4338CA",
				CategoryRef: "cat_extrajudicial",
				WorkflowRef: strPtr("wf_contrato"),
			},
			{
				RefKey:      "tp_parecer",
				Name:        "Parecer Jurídico",
				Description: "Parecer consultivo sem fluxo processual.",
				Icon:        "book-open",
				Color:       "#0F766E",
				CategoryRef: "cat_consultivo",
			},
		},
		Workflows: []model.PackWorkflowTemplate{
			{
				RefKey:      "wf_processo_judicial",
				Name:        "Processo Judicial",
				Description: "Da triagem ao arquivamento.",
				Steps: []model.PackWorkflowStep{
					{RefKey: "pj_s01", Name: "Triagem", StepOrder: 1},
					{RefKey: "pj_s02", Name: "Distribuição", StepOrder: 2},
					{RefKey: "pj_s03", Name: "Instrução", StepOrder: 3, HasProtocol: true},
					{RefKey: "pj_s04", Name: "Prazo Fatal", StepOrder: 4, HasProtocol: true},
					{RefKey: "pj_s05", Name: "Sentença", StepOrder: 5},
					{RefKey: "pj_s06", Name: "Arquivado", StepOrder: 6, IsTerminal: true},
				},
				Transitions: []model.PackWorkflowTransition{
					{FromStepRef: "pj_s01", ToStepRef: "pj_s02", Name: "Distribuir"},
					{FromStepRef: "pj_s02", ToStepRef: "pj_s03", Name: "Iniciar instrução"},
					{FromStepRef: "pj_s03", ToStepRef: "pj_s04", Name: "Abrir prazo"},
					{FromStepRef: "pj_s04", ToStepRef: "pj_s05", Name: "Aguardar sentença"},
					{FromStepRef: "pj_s05", ToStepRef: "pj_s06", Name: "Arquivar"},
					{FromStepRef: "pj_s05", ToStepRef: "pj_s03", Name: "Retornar para instrução", Description: "Sentença anulada ou convertida em diligência."},
				},
			},
			{
				RefKey:      "wf_contrato",
				Name:        "Contrato",
				Description: "Minuta, revisão, assinatura e vigência com ciclo de renovação.",
				Steps: []model.PackWorkflowStep{
					{RefKey: "ct_s01", Name: "Minuta", StepOrder: 1},
					{RefKey: "ct_s02", Name: "Revisão", StepOrder: 2, OCREnabled: true},
					{RefKey: "ct_s03", Name: "Assinatura", StepOrder: 3},
					{RefKey: "ct_s04", Name: "Vigente", StepOrder: 4, IsTerminal: true},
				},
				Transitions: []model.PackWorkflowTransition{
					{FromStepRef: "ct_s01", ToStepRef: "ct_s02", Name: "Enviar para revisão"},
					{FromStepRef: "ct_s02", ToStepRef: "ct_s03", Name: "Liberar para assinatura"},
					{FromStepRef: "ct_s03", ToStepRef: "ct_s04", Name: "Registrar vigência"},
					// Renewal cycle: the terminal step loops back into revision.
					{FromStepRef: "ct_s04", ToStepRef: "ct_s02", Name: "Renovar", Description: "Reabre o contrato vigente para renovação.", ConditionJSON: json.RawMessage(`{"requires":"vigencia_proxima_do_fim"}`)},
				},
			},
		},
		DeadlineRules: []model.PackDeadlineRule{
			{StepRef: "pj_s04", DaysToComplete: 1, Priority: model.PriorityCritical, NotifyBeforeDays: 1},
			{StepRef: "pj_s02", DaysToComplete: 5, Priority: model.PriorityHigh, NotifyBeforeDays: 2},
			{StepRef: "ct_s03", DaysToComplete: 7, Priority: model.PriorityMedium, NotifyBeforeDays: 2},
		},
		TaskTemplates: []model.PackStepTaskTemplate{
			{StepRef: "pj_s01", Title: "Conferir documentos do cliente", IsRequired: true, Priority: model.PriorityMedium, TemplateOrder: 1, AssignedRoleRef: strPtr("rl_estagiario")},
			{StepRef: "pj_s04", Title: "Protocolar petição dentro do prazo", IsRequired: true, Priority: model.PriorityCritical, TemplateOrder: 1, AssignedRoleRef: strPtr("rl_advogado"), DueDays: intPtr(1)},
			{StepRef: "ct_s03", Title: "Colher assinaturas das partes", IsRequired: true, Priority: model.PriorityHigh, TemplateOrder: 1, AssignedRoleRef: strPtr("rl_advogado")},
		},
		StepForms: []model.PackStepForm{
			{
				StepRef: "pj_s01",
				Name:    "Dados do Processo",
				FormSchemaJSON: json.RawMessage(`{"fields":[
					{"key":"numero_processo","label":"Número do processo","type":"text"},
					{"key":"vara","label":"Vara","type":"text"},
					{"key":"comarca","label":"Comarca","type":"text"},
					{"key":"rito","label":"Rito","type":"select","options":["ordinario","sumarissimo"]}
				]}`),
				IsRequired:         true,
				CanBlockTransition: true,
			},
		},
		Documents: []model.PackDocumentTemplate{
			{
				RefKey:      "doc_procuracao",
				Name:        "Procuração Ad Judicia",
				Category:    "juridico",
				ContentHTML: "<h1>Procuração</h1><p>Outorgante: {{customer_name}}, inscrito no CPF {{customer_document}}.</p><p>Outorgado: {{tenant_name}}, OAB {{oab}}.</p><p>{{cidade}}, {{date}}.</p>",
				Variables: map[string]model.VariableBinding{
					"customer_name":     model.SourceBinding(model.BindingSourceCustomer, "name", "Nome do outorgante"),
					"customer_document": model.SourceBinding(model.BindingSourceCustomer, "document", "CPF/CNPJ do outorgante"),
					"tenant_name":       model.SourceBinding(model.BindingSourceTenant, "name", "Nome do escritório"),
					"oab":               model.SourceBinding(model.BindingSourceTenant, "oab", "Registro OAB"),
					"cidade":            model.SourceBinding(model.BindingSourceInput, "", "Cidade de assinatura"),
					"date":              model.SourceBinding(model.BindingSourceAuto, "date", "Data de emissão"),
				},
			},
			{
				RefKey:      "doc_contrato_honorarios",
				Name:        "Contrato de Honorários",
				Category:    "juridico",
				ContentHTML: "<h1>Contrato de Honorários Advocatícios</h1><p>Contratante: {{customer_name}}</p><p>Contratado: {{tenant_name}}</p><p>Objeto: {{objeto}}</p><p>Honorários: {{valor}}</p><p>Foro: {{foro}}</p>",
				Variables: map[string]model.VariableBinding{
					"customer_name": model.SourceBinding(model.BindingSourceCustomer, "name", "Contratante"),
					"tenant_name":   model.SourceBinding(model.BindingSourceTenant, "name", "Contratado"),
					"objeto":        model.SourceBinding(model.BindingSourceServiceOrder, "service_name", "Objeto do contrato"),
					"valor":         model.SourceBinding(model.BindingSourceInput, "", "Valor dos honorários"),
					"foro":          model.LiteralBinding("Comarca da sede do contratado"),
				},
			},
		},
		Roles: []model.PackRole{
			{RefKey: "rl_advogado", Name: "Advogado", Permissions: []string{"processes.*", "documents.*", "deadlines.*", "customers.read"}},
			{RefKey: "rl_estagiario", Name: "Estagiário", Permissions: []string{"processes.read", "documents.read", "tasks.update"}},
			{RefKey: "rl_financeiro", Name: "Financeiro", Permissions: []string{"invoices.*", "reports.read"}},
		},
		Services: []model.PackService{
			{RefKey: "sv_acao_trabalhista", Name: "Ação Trabalhista", TypeRef: "tp_processo", ItemKind: model.ItemKindService, SellPrice: 5000, CostPrice: 800},
			{RefKey: "sv_elaboracao_contrato", Name: "Elaboração de Contrato", TypeRef: "tp_contrato", ItemKind: model.ItemKindService, SellPrice: 1200, CostPrice: 150},
			{RefKey: "sv_parecer", Name: "Parecer Jurídico", TypeRef: "tp_parecer", ItemKind: model.ItemKindService, SellPrice: 900, CostPrice: 100},
		},
	}
}
