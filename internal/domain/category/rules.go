package category

// Rule binds a label to the keywords that select it.
type Rule struct {
	Label    Label
	Keywords []string
}

// DefaultRules returns the built-in keyword lists in priority order.
// The order is part of the contract: a record matching several lists
// gets the label of the first one.
func DefaultRules() []Rule {
	return []Rule{
		{Label: Science, Keywords: []string{
			"genética", "biologia", "agricultura", "zootecnia", "meio ambiente",
			"ecologia", "botânica", "zoologia", "microbiologia", "bioquímica",
			"fisiologia", "física", "química",
		}},
		{Label: Engineering, Keywords: []string{
			"construção", "indústria química", "tecnologia agrícola", "controle de qualidade",
			"engenharia", "cálculo estrutural", "materiais de construção", "elétrica",
			"eletricidade", "circuitos elétricos", "eletrotécnica", "instalações prediais",
			"energia renovável", "irrigação e drenagem", "armazenamento e secagem de grãos",
			"construções rurais", "agricultura de precisão", "máquinas e equipamentos",
			"gestão produção", "logística", "produção", "qualidade", "pcp", "mecânica",
			"hidráulica", "pneumática", "automação",
		}},
		{Label: Software, Keywords: []string{
			"programação", "debian", "computação", "php", "inteligência artificial", "assembly",
			"algoritmo", "robô", "java", "robótica", "dados", "banco dados", "c++", "fortram",
			"sistemas", "linux", "redes", "hardware", "computador", "informática", "ponteiros",
			"wi-fi", "i.a", "códgio", "codificação", "html", "css", "javascript", "python",
			"desenvolvimento", "software", "aplicação", "web",
		}},
		{Label: Humanities, Keywords: []string{
			"política", "história", "sociologia", "filosofia", "economia",
			"direito", "educação", "literatura", "arte", "geografia", "antropologia",
		}},
		{Label: Management, Keywords: []string{
			"administração", "gestão", "marketing", "finanças",
			"empreendedorismo", "planejamento", "inovação", "estratégia",
		}},
		{Label: NaturalScience, Keywords: []string{
			"oceanografia", "geologia", "meteorologia", "climatologia", "astronomia",
		}},
		{Label: Health, Keywords: []string{
			"medicina", "enfermagem", "saúde", "saúde pública", "nutrição",
			"fisioterapia", "odontologia", "psicologia", "farmacologia", "epidemiologia",
		}},
		{Label: Law, Keywords: []string{
			"direito", "legislação", "justiça", "processo civil",
			"processo penal", "constituição", "penal", "trabalhista",
		}},
		{Label: Education, Keywords: []string{
			"ensino", "pedagogia", "didática", "educação", "escola", "professor",
		}},
		{Label: Architecture, Keywords: []string{
			"arquitetura", "urbanismo", "planejamento urbano", "paisagismo",
		}},
		{Label: Technology, Keywords: []string{
			"tecnologia", "inovação", "industrial", "ciência aplicada",
		}},
	}
}
