package chatbot

// Entry is one keyword rule. Entries are matched in declaration order.
type Entry struct {
	Key          string
	Content      string
	QuickReplies []string
}

// DefaultKey names the reply used when nothing matches
const DefaultKey = "default"

var entries = []Entry{
	{
		Key:          "ola",
		Content:      "Olá! 👋 Sou o assistente virtual da corretora. Como posso te ajudar hoje?",
		QuickReplies: []string{"Quero fazer uma cotação", "Planos de saúde", "Seguro auto", "Falar com corretor"},
	},
	{
		Key:          "oi",
		Content:      "Oi! 😊 Estou aqui para te ajudar com seguros, planos de saúde e consórcios. O que você gostaria de saber?",
		QuickReplies: []string{"Cotação de seguro", "Planos disponíveis", "Preços", "Atendimento"},
	},
	{
		Key:          "seguro auto",
		Content:      "Ótima escolha! 🚗 Para o seguro auto, trabalhamos com as melhores seguradoras. Preciso de algumas informações: qual o modelo do seu carro e ano?",
		QuickReplies: []string{"Carro popular", "Carro de luxo", "SUV/Picape", "Falar com corretor"},
	},
	{
		Key:          "seguro residencial",
		Content:      "🏠 O seguro residencial protege sua casa contra incêndio, roubo, danos elétricos e muito mais. Que tipo de imóvel você tem?",
		QuickReplies: []string{"Apartamento", "Casa", "Casa de condomínio", "Solicitar cotação"},
	},
	{
		Key:          "seguro vida",
		Content:      "❤️ O seguro de vida garante proteção financeira para sua família. Temos planos individuais e familiares. Gostaria de saber mais sobre qual?",
		QuickReplies: []string{"Plano individual", "Plano familiar", "Valores", "Cobertura"},
	},
	{
		Key:          "planos de saude",
		Content:      "🏥 Temos excelentes planos de saúde com ampla rede credenciada. Você procura para quantas pessoas?",
		QuickReplies: []string{"Individual", "Casal", "Família", "Empresarial"},
	},
	{
		Key:          "plano individual",
		Content:      "Perfeito! Para plano individual, temos opções de R$ 180 a R$ 450/mês. Qual sua faixa etária?",
		QuickReplies: []string{"18-30 anos", "31-45 anos", "46-60 anos", "Mais de 60"},
	},
	{
		Key:          "consorcio",
		Content:      "🎯 Consórcios são uma excelente forma de realizar sonhos! Você tem interesse em consórcio de imóvel ou veículo?",
		QuickReplies: []string{"Consórcio imóvel", "Consórcio veículo", "Como funciona", "Simulação"},
	},
	{
		Key:          "cotacao",
		Content:      "📋 Vou te ajudar com a cotação! Qual tipo de produto você gostaria de cotar?",
		QuickReplies: []string{"Seguro auto", "Seguro residencial", "Plano de saúde", "Consórcio"},
	},
	{
		Key:          "quero fazer cotacao",
		Content:      "📋 Perfeito! Para fazer sua cotação, preciso saber: que tipo de seguro ou produto você procura?",
		QuickReplies: []string{"Seguro auto", "Seguro casa", "Plano saúde", "Seguro vida"},
	},
	{
		Key:          "falar com corretor",
		Content:      "👨‍💼 Claro! Vou te conectar com um de nossos corretores especializados. Você pode entrar em contato pelo WhatsApp: (11) 99999-9999 ou preencher o formulário de contato.",
		QuickReplies: []string{"Abrir WhatsApp", "Formulário contato", "Ligar agora", "Voltar ao menu"},
	},
	{
		Key:          "telefone",
		Content:      "📞 Nosso telefone para contato é (11) 99999-9999. Atendemos de segunda a sexta, das 8h às 18h, e sábados das 8h às 12h.",
		QuickReplies: []string{"WhatsApp", "Email", "Endereço", "Horários"},
	},
	{
		Key:          "horarios",
		Content:      "🕐 Nossos horários de atendimento:\n• Segunda a Sexta: 8h às 18h\n• Sábado: 8h às 12h\n• Domingo: Fechado\n\nPelo WhatsApp atendemos 24h!",
		QuickReplies: []string{"WhatsApp 24h", "Agendar reunião", "Emergência", "Voltar"},
	},
	{
		Key:          "endereco",
		Content:      "📍 Estamos localizados na Rua das Flores, 123 - São Paulo, SP. Temos estacionamento próprio e fácil acesso por transporte público.",
		QuickReplies: []string{"Ver no mapa", "Como chegar", "Estacionamento", "Agendar visita"},
	},
}

var fallback = Entry{
	Key:          DefaultKey,
	Content:      "Desculpe, não entendi sua pergunta. 🤔 Mas posso te ajudar com seguros, planos de saúde e consórcios. O que você gostaria de saber?",
	QuickReplies: []string{"Seguros", "Planos de saúde", "Consórcios", "Falar com corretor"},
}

const welcomeTemplate = "Olá! 👋 Bem-vindo à %s! Sou seu assistente virtual e estou aqui para te ajudar com seguros, planos de saúde e consórcios. Como posso te ajudar?"

var welcomeQuickReplies = []string{"Fazer cotação", "Planos de saúde", "Seguros", "Falar com corretor"}

// Entries returns a copy of the keyword table in match order
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
