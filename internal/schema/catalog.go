package schema

import "github.com/betjuliano/sefa-dashboard/internal/model"

// Dimension display names shared by both question sets
const (
	NameSystem      = "Qualidade do Sistema"
	NameInformation = "Qualidade da Informação"
	NameOperation   = "Qualidade da Operação"
)

// DefaultBase20 returns the built-in 26-item questionnaire schema covering
// the full government service evaluation form.
func DefaultBase20() *model.Schema {
	return &model.Schema{
		Set: model.QuestionSetBase20,
		Dimensions: []model.Dimension{
			{
				Code: model.DimensionSystem,
				Name: NameSystem,
				Questions: []model.Question{
					{Code: "QS1", Text: "O sistema funciona sem falhas."},
					{Code: "QS2", Text: "Os recursos de acessibilidade do sistema são fáceis de encontrar."},
					{Code: "QS3", Text: "O sistema é fácil de usar."},
					{Code: "QS4", Text: "O sistema está disponível para uso em qualquer dia e hora."},
					{Code: "QS5", Text: "O desempenho do sistema é satisfatório, independentemente da forma de acesso."},
					{Code: "QS6", Text: "O sistema informa sobre as políticas de privacidade e segurança."},
					{Code: "QS7", Text: "Acredito que meus dados estão seguros neste sistema."},
					{Code: "QS8", Text: "É fácil localizar os serviços e as informações no sistema."},
					{Code: "QS9", Text: "A navegação pelo sistema é intuitiva."},
					{Code: "QS10", Text: "O sistema oferece instruções úteis de como utilizar os serviços."},
				},
			},
			{
				Code: model.DimensionInformation,
				Name: NameInformation,
				Questions: []model.Question{
					{Code: "QI1", Text: "As informações são fáceis de entender."},
					{Code: "QI2", Text: "As informações são precisas."},
					{Code: "QI3", Text: "As informações auxiliam na solicitação dos serviços."},
					{Code: "QI4", Text: "Todas as informações necessárias para a solicitação dos serviços são fornecidas."},
					{Code: "QI5", Text: "O prazo de entrega dos serviços é informado."},
					{Code: "QI6", Text: "As taxas cobradas pelos serviços são informadas."},
					{Code: "QI7", Text: "As informações disponibilizadas estão atualizadas."},
				},
			},
			{
				Code: model.DimensionOperation,
				Name: NameOperation,
				Questions: []model.Question{
					{Code: "QO1", Text: "Os serviços oferecem suporte técnico eficiente."},
					{Code: "QO2", Text: "O atendimento resolve meus problemas."},
					{Code: "QO3", Text: "Os serviços permitem a conclusão das tarefas no menor tempo possível."},
					{Code: "QO4", Text: "Consigo obter o que preciso no menor tempo possível."},
					{Code: "QO5", Text: "Os serviços atendem às minhas expectativas."},
					{Code: "QO6", Text: "Quando preciso de ajuda, minhas dificuldades são resolvidas."},
					{Code: "QO7", Text: "Meus dados são automaticamente identificados na solicitação dos serviços."},
					{Code: "QO8", Text: "Os serviços oferecidos são confiáveis."},
					{Code: "QO9", Text: "Os serviços permitem interações em tempo real (ex. chatbot, IA)."},
				},
			},
		},
		SatisfactionQuestion: "Qual o seu nível de satisfação com o Sistema?",
		ProfileCandidates:    defaultProfileCandidates(),
	}
}

// DefaultBase8 returns the built-in 8-item schema used by the transparency
// portal survey, which rewords the questions around "Portal" instead of
// "sistema".
func DefaultBase8() *model.Schema {
	return &model.Schema{
		Set: model.QuestionSetBase8,
		Dimensions: []model.Dimension{
			{
				Code: model.DimensionSystem,
				Name: NameSystem,
				Questions: []model.Question{
					{Code: "QS1", Text: "O Portal é fácil de usar."},
					{Code: "QS2", Text: "É fácil localizar os dados e as informações no Portal."},
					{Code: "QS3", Text: "A navegação pelo Portal é intuitiva."},
					{Code: "QS4", Text: "O Portal funciona sem falhas."},
				},
			},
			{
				Code: model.DimensionInformation,
				Name: NameInformation,
				Questions: []model.Question{
					{Code: "QI1", Text: "As informações são fáceis de entender."},
					{Code: "QI2", Text: "As informações são precisas."},
					{Code: "QI3", Text: "As informações disponibilizadas estão atualizadas."},
				},
			},
			{
				Code: model.DimensionOperation,
				Name: NameOperation,
				Questions: []model.Question{
					{Code: "QO1", Text: "Consigo obter o que preciso no menor tempo possível."},
				},
			},
		},
		SatisfactionQuestion: "Qual o seu nível de satisfação com o Portal da Transparência do RS?",
		ProfileCandidates:    defaultProfileCandidates(),
	}
}

// defaultProfileCandidates lists the respondent profile columns the survey
// exports carry, both the short labels and the full question wordings.
func defaultProfileCandidates() []string {
	return []string{
		"Idade",
		"Qual a sua idade?",
		"Sexo",
		"Qual o seu sexo?",
		"Escolaridade",
		"Qual a sua escolaridade?",
		"Renda",
		"Qual a sua renda familiar?",
		"Servidor Público",
		"Você é servidor público?",
	}
}

// DefaultSchemas returns both built-in schemas keyed by question set, with
// normalized texts precomputed for header matching.
func DefaultSchemas() map[model.QuestionSet]*model.Schema {
	return map[model.QuestionSet]*model.Schema{
		model.QuestionSetBase20: Prepare(DefaultBase20()),
		model.QuestionSetBase8:  Prepare(DefaultBase8()),
	}
}
