package registry

import (
	"encoding/json"

	"github.com/OpenVertical/vertical/internal/pack/model"
)

// comercioPack configures retail tenants: point of sale, stock-tracked
// products, composite kits and a delivery workflow.
func comercioPack() *model.TemplatePack {
	return &model.TemplatePack{
		Metadata: model.PackMetadata{
			Key:         "comercio",
			Name:        "Comércio e Varejo",
			Description: "Lojas e varejo: PDV, produtos, estoque e entregas.",
			Icon:        "shopping-cart",
			Color:       "#15803D",
			Version:     "1.1.0",
		},
		TenantConfig: model.PackTenantConfig{
			Specialty:           "comercio",
			DefaultAgentPersona: "vendedor",
			ShowServiceBoard:    false,
			ShowCatalog:         true,
		},
		Modules: []model.ModuleKey{
			model.ModuleCore,
			model.ModuleCRM,
			model.ModuleFinancial,
			model.ModulePDV,
			model.ModuleProducts,
			model.ModuleStock,
			model.ModulePurchases,
			model.ModuleDelivery,
		},
		Categories: []model.PackServiceCategory{
			{RefKey: "cat_produtos", Name: "Produtos", Color: "#15803D", Icon: "package", SortOrder: 1, Active: true},
			{RefKey: "cat_servicos_loja", Name: "Serviços da Loja", Color: "#B45309", Icon: "store", SortOrder: 2, Active: true},
		},
		ServiceTypes: []model.PackServiceType{
			{
				RefKey:      "tp_venda_balcao",
				Name:        "Venda Balcão",
				Description: "Venda direta no ponto de venda, sem fluxo.",
				Icon:        "cash-register",
				Color:       "#B45309",
				CategoryRef: "cat_servicos_loja",
			},
			{
				RefKey:      "tp_pedido_entrega",
				Name:        "Pedido com Entrega",
				Description: "Pedido separado em estoque e entregue ao cliente.",
				Icon:        "truck",
				Color:       "#15803D",
				CategoryRef: "cat_servicos_loja",
				WorkflowRef: strPtr("wf_pedido"),
			},
			{
				RefKey:      "tp_produto",
				Name:        "Produto de Catálogo",
				Description: "Item físico com controle de estoque.",
				Icon:        "package",
				Color:       "#15803D",
				CategoryRef: "cat_produtos",
			},
		},
		Workflows: []model.PackWorkflowTemplate{
			{
				RefKey:      "wf_pedido",
				Name:        "Pedido",
				Description: "Recebimento, separação, entrega e finalização.",
				Steps: []model.PackWorkflowStep{
					{RefKey: "pd_s01", Name: "Recebido", StepOrder: 1},
					{RefKey: "pd_s02", Name: "Separação", StepOrder: 2},
					{RefKey: "pd_s03", Name: "Entrega", StepOrder: 3},
					{RefKey: "pd_s04", Name: "Finalizado", StepOrder: 4, IsTerminal: true},
				},
				Transitions: []model.PackWorkflowTransition{
					{FromStepRef: "pd_s01", ToStepRef: "pd_s02", Name: "Separar"},
					{FromStepRef: "pd_s02", ToStepRef: "pd_s03", Name: "Despachar"},
					{FromStepRef: "pd_s03", ToStepRef: "pd_s04", Name: "Confirmar entrega"},
					{FromStepRef: "pd_s03", ToStepRef: "pd_s02", Name: "Retornar para separação", Description: "Item incorreto ou embalagem danificada."},
				},
			},
		},
		DeadlineRules: []model.PackDeadlineRule{
			{StepRef: "pd_s02", DaysToComplete: 0, Priority: model.PriorityUrgent, NotifyBeforeDays: 0},
			{StepRef: "pd_s03", DaysToComplete: 2, Priority: model.PriorityHigh, NotifyBeforeDays: 1},
		},
		TaskTemplates: []model.PackStepTaskTemplate{
			{StepRef: "pd_s02", Title: "Separar itens do pedido", IsRequired: true, Priority: model.PriorityUrgent, TemplateOrder: 1, AssignedRoleRef: strPtr("rl_vendedor")},
			{StepRef: "pd_s02", Title: "Conferir quantidades", IsRequired: true, Priority: model.PriorityHigh, TemplateOrder: 2},
		},
		StepForms: []model.PackStepForm{
			{
				StepRef: "pd_s03",
				Name:    "Comprovante de Entrega",
				FormSchemaJSON: json.RawMessage(`{"fields":[
					{"key":"recebedor","label":"Nome de quem recebeu","type":"text"},
					{"key":"documento","label":"Documento","type":"text"},
					{"key":"foto","label":"Foto do comprovante","type":"file"}
				]}`),
				IsRequired:         true,
				CanBlockTransition: true,
			},
		},
		Documents: []model.PackDocumentTemplate{
			{
				RefKey:      "doc_recibo_venda",
				Name:        "Recibo de Venda",
				Category:    "fiscal",
				ContentHTML: "<h1>Recibo</h1><p>{{tenant_name}} declara ter recebido de {{customer_name}} o valor de {{valor}} referente a {{descricao}}.</p><p>{{date}}</p>",
				Variables: map[string]model.VariableBinding{
					"tenant_name":   model.SourceBinding(model.BindingSourceTenant, "name", "Nome da loja"),
					"customer_name": model.SourceBinding(model.BindingSourceCustomer, "name", "Nome do cliente"),
					"valor":         model.SourceBinding(model.BindingSourceServiceOrder, "total", "Valor da venda"),
					"descricao":     model.SourceBinding(model.BindingSourceInput, "", "Descrição da venda"),
					"date":          model.SourceBinding(model.BindingSourceAuto, "date", "Data de emissão"),
				},
			},
		},
		Roles: []model.PackRole{
			{RefKey: "rl_vendedor", Name: "Vendedor", Permissions: []string{"sales.create", "products.read", "customers.read"}},
			{RefKey: "rl_caixa", Name: "Caixa", Permissions: []string{"sales.*", "payments.*", "cash_register.*"}},
		},
		Services: []model.PackService{
			{RefKey: "sv_camiseta", Name: "Camiseta Estampada", TypeRef: "tp_produto", ItemKind: model.ItemKindProduct, SellPrice: 59.9, CostPrice: 22, TrackStock: true},
			{RefKey: "sv_caneca", Name: "Caneca Personalizada", TypeRef: "tp_produto", ItemKind: model.ItemKindProduct, SellPrice: 34.9, CostPrice: 12.5, TrackStock: true},
			{
				RefKey:        "sv_kit_presente",
				Name:          "Kit Presente",
				TypeRef:       "tp_produto",
				ItemKind:      model.ItemKindProduct,
				SellPrice:     129.9,
				CostPrice:     0,
				IsComposition: true,
				Compositions: []model.PackServiceComposition{
					{ChildRef: "sv_camiseta", Quantity: 2},
					{ChildRef: "sv_caneca", Quantity: 1},
				},
			},
			{RefKey: "sv_ajuste_roupa", Name: "Ajuste de Roupa", TypeRef: "tp_venda_balcao", ItemKind: model.ItemKindService, SellPrice: 25, CostPrice: 5},
		},
	}
}
