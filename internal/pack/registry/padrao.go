package registry

import (
	"encoding/json"

	"github.com/OpenVertical/vertical/internal/pack/model"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// padraoPack is the generic services pack applied to tenants without a
// vertical-specific choice.
func padraoPack() *model.TemplatePack {
	return &model.TemplatePack{
		Metadata: model.PackMetadata{
			Key:         "padrao",
			Name:        "Serviços Padrão",
			Description: "Configuração genérica de prestação de serviços com fluxos rápido e completo.",
			Icon:        "briefcase",
			Color:       "#2563EB",
			Version:     "1.0.0",
		},
		TenantConfig: model.PackTenantConfig{
			Specialty:           "servicos",
			DefaultAgentPersona: "atendente",
			ShowServiceBoard:    true,
			ShowCatalog:         true,
		},
		Modules: []model.ModuleKey{
			model.ModuleCore,
			model.ModuleDocuments,
			model.ModuleCRM,
			model.ModuleFinancial,
			model.ModuleTimeTracking,
		},
		Categories: []model.PackServiceCategory{
			{RefKey: "cat_geral", Name: "Serviços Gerais", Color: "#2563EB", Icon: "wrench", SortOrder: 1, Active: true},
			{RefKey: "cat_consultivo", Name: "Consultoria", Color: "#7C3AED", Icon: "lightbulb", SortOrder: 2, Active: true},
		},
		ServiceTypes: []model.PackServiceType{
			{
				RefKey:      "tp_servico_rapido",
				Name:        "Serviço Rápido",
				Description: "Atendimento pontual com fluxo de três etapas.",
				Icon:        "zap",
				Color:       "#2563EB",
				CategoryRef: "cat_geral",
				WorkflowRef: strPtr("wf_rapido_3etapas"),
			},
			{
				RefKey:      "tp_servico_completo",
				Name:        "Serviço Completo",
				Description: "Serviço com análise, execução e revisão.",
				Icon:        "layers",
				Color:       "#0891B2",
				CategoryRef: "cat_geral",
				WorkflowRef: strPtr("wf_completo_5etapas"),
			},
			{
				RefKey:      "tp_consultoria",
				Name:        "Consultoria",
				Description: "Sessões de consultoria avulsas ou recorrentes.",
				Icon:        "users",
				Color:       "#7C3AED",
				CategoryRef: "cat_consultivo",
				WorkflowRef: strPtr("wf_rapido_3etapas"),
			},
		},
		Workflows: []model.PackWorkflowTemplate{
			{
				RefKey:      "wf_rapido_3etapas",
				Name:        "Fluxo Rápido",
				Description: "Abertura, execução e conclusão.",
				Steps: []model.PackWorkflowStep{
					{RefKey: "r3_s01", Name: "Aberto", StepOrder: 1},
					{RefKey: "r3_s02", Name: "Em Andamento", StepOrder: 2},
					{RefKey: "r3_s03", Name: "Concluído", StepOrder: 3, IsTerminal: true},
				},
				Transitions: []model.PackWorkflowTransition{
					{FromStepRef: "r3_s01", ToStepRef: "r3_s02", Name: "Iniciar"},
					{FromStepRef: "r3_s02", ToStepRef: "r3_s03", Name: "Concluir"},
					{FromStepRef: "r3_s02", ToStepRef: "r3_s01", Name: "Reabrir", Description: "Devolve o atendimento para a fila de abertura."},
				},
			},
			{
				RefKey:      "wf_completo_5etapas",
				Name:        "Fluxo Completo",
				Description: "Recebimento, análise, execução, revisão e entrega.",
				Steps: []model.PackWorkflowStep{
					{RefKey: "c5_s01", Name: "Recebido", StepOrder: 1},
					{RefKey: "c5_s02", Name: "Análise", StepOrder: 2},
					{RefKey: "c5_s03", Name: "Execução", StepOrder: 3, OCREnabled: true},
					{RefKey: "c5_s04", Name: "Revisão", StepOrder: 4},
					{RefKey: "c5_s05", Name: "Entregue", StepOrder: 5, IsTerminal: true},
				},
				Transitions: []model.PackWorkflowTransition{
					{FromStepRef: "c5_s01", ToStepRef: "c5_s02", Name: "Analisar"},
					{FromStepRef: "c5_s02", ToStepRef: "c5_s03", Name: "Aprovar execução"},
					{FromStepRef: "c5_s03", ToStepRef: "c5_s04", Name: "Enviar para revisão"},
					{FromStepRef: "c5_s04", ToStepRef: "c5_s05", Name: "Entregar"},
					{FromStepRef: "c5_s04", ToStepRef: "c5_s03", Name: "Devolver para ajustes"},
				},
			},
		},
		DeadlineRules: []model.PackDeadlineRule{
			{StepRef: "r3_s02", DaysToComplete: 3, Priority: model.PriorityMedium, NotifyBeforeDays: 1},
			{StepRef: "c5_s02", DaysToComplete: 2, Priority: model.PriorityHigh, NotifyBeforeDays: 1},
		},
		TaskTemplates: []model.PackStepTaskTemplate{
			{StepRef: "r3_s01", Title: "Registrar solicitação do cliente", IsRequired: true, Priority: model.PriorityMedium, TemplateOrder: 1, AssignedRoleRef: strPtr("rl_atendente")},
			{StepRef: "c5_s03", Title: "Executar escopo acordado", IsRequired: true, Priority: model.PriorityHigh, TemplateOrder: 1},
			{StepRef: "c5_s03", Title: "Anexar evidências da execução", IsRequired: false, Priority: model.PriorityLow, TemplateOrder: 2, DueDays: intPtr(2)},
		},
		StepForms: []model.PackStepForm{
			{
				StepRef: "r3_s01",
				Name:    "Dados da Solicitação",
				FormSchemaJSON: json.RawMessage(`{"fields":[
					{"key":"descricao","label":"Descrição do serviço","type":"textarea"},
					{"key":"canal","label":"Canal de entrada","type":"select","options":["telefone","whatsapp","presencial"]}
				]}`),
				IsRequired:         true,
				CanBlockTransition: true,
			},
		},
		Documents: []model.PackDocumentTemplate{
			{
				RefKey:      "doc_os",
				Name:        "Ordem de Serviço",
				Category:    "operacional",
				ContentHTML: "<h1>Ordem de Serviço</h1><p>Prestador: {{tenant_name}}</p><p>Cliente: {{customer_name}}</p><p>Serviço: {{service_name}}</p><p>Data: {{date}}</p><p>Observações: {{observacoes}}</p><footer>Validade da proposta: {{validade}}</footer>",
				Variables: map[string]model.VariableBinding{
					"tenant_name":   model.SourceBinding(model.BindingSourceTenant, "name", "Nome do prestador"),
					"customer_name": model.SourceBinding(model.BindingSourceCustomer, "name", "Nome do cliente"),
					"service_name":  model.SourceBinding(model.BindingSourceServiceOrder, "service_name", "Serviço contratado"),
					"date":          model.SourceBinding(model.BindingSourceAuto, "date", "Data de emissão"),
					"observacoes":   model.SourceBinding(model.BindingSourceInput, "", "Observações"),
					"validade":      model.LiteralBinding("30 dias"),
				},
			},
		},
		Roles: []model.PackRole{
			{RefKey: "rl_atendente", Name: "Atendente", Permissions: []string{"service_orders.read", "service_orders.create", "customers.read"}},
			{RefKey: "rl_gestor", Name: "Gestor", Permissions: []string{"service_orders.*", "customers.*", "reports.read", "settings.write"}},
		},
		Services: []model.PackService{
			{RefKey: "sv_consulta_avulsa", Name: "Consulta Avulsa", TypeRef: "tp_consultoria", ItemKind: model.ItemKindService, SellPrice: 250, CostPrice: 0},
			{RefKey: "sv_pacote_mensal", Name: "Pacote Mensal de Consultoria", TypeRef: "tp_consultoria", ItemKind: model.ItemKindService, SellPrice: 1800, CostPrice: 0},
		},
	}
}
