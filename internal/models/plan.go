package models

// Plan is a static catalog entry. Plans are defined at deploy time and never
// persisted; the browser only ever sends the Stripe price ID back to us.
type Plan struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	PriceCents int64    `json:"price"`
	Currency   string   `json:"currency"`
	PriceID    string   `json:"priceId"`
	Features   []string `json:"features"`
}

var SubscriptionPlans = []Plan{
	{
		ID:         "discipulo",
		Name:       "Discípulo",
		PriceCents: 2990,
		Currency:   "brl",
		PriceID:    "price_1QXdiscipulo2990brl",
		Features: []string{
			"50+ Orações Exclusivas dos Santos",
			"Textos Sagrados Traduzidos do Latim",
			"Orações Diárias Personalizadas",
			"Suporte Espiritual 24h",
			"Acesso ao App Mobile",
		},
	},
	{
		ID:         "apostolo",
		Name:       "Apóstolo",
		PriceCents: 4990,
		Currency:   "brl",
		PriceID:    "price_1QXapostolo4990brl",
		Features: []string{
			"200+ Orações dos Grandes Líderes",
			"Manuscritos Secretos em Latim e Aramaico",
			"Rituais de Proteção e Prosperidade",
			"Consultoria Espiritual Semanal",
			"Comunidade VIP Exclusiva",
			"Certificado de Membro Apostólico",
			"Acesso Prioritário a Novos Conteúdos",
		},
	},
	{
		ID:         "santo_padre",
		Name:       "Santo Padre",
		PriceCents: 9990,
		Currency:   "brl",
		PriceID:    "price_1QXsantopadre9990brl",
		Features: []string{
			"500+ Orações dos Papas e Santos",
			"Manuscritos Originais dos Mosteiros",
			"Rituais Secretos dos Templários",
			"Orações Personalizadas Exclusivas",
			"Consultoria Espiritual Diária",
			"Acesso VIP Total à Comunidade",
			"Certificado Papal Honorário",
			"Linha Direta com Mentores Espirituais",
		},
	},
}
