package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config models gabinete.yml.
type Config struct {
	Operator struct {
		Name      string `yaml:"name"`
		Matricula string `yaml:"matricula"`
		Role      string `yaml:"role"`
		Unit      string `yaml:"unit"`
	} `yaml:"operator"`
	Gemini struct {
		APIKey     string `yaml:"api_key"`
		Model      string `yaml:"model"`
		ProModel   string `yaml:"pro_model"`
		MaxRetries int    `yaml:"max_retries"`
	} `yaml:"gemini"`
	Remote struct {
		URL        string `yaml:"url"`
		AnonKey    string `yaml:"anon_key"`
		ServiceKey string `yaml:"service_key"`
		Session    string `yaml:"session"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"remote"`
	Esaj struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"esaj"`
	Oficio struct {
		Destinatarios map[string]Destinatario `yaml:"destinatarios"`
	} `yaml:"oficio"`
}

// Destinatario is a catalogued addressee block for official letters.
type Destinatario struct {
	Orgao    string `yaml:"orgao"`
	Contato  string `yaml:"contato"`
	Endereco string `yaml:"endereco"`
	Email    string `yaml:"email"`
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create it with gab init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns nil,nil if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Operator.Name == "" {
		return fmt.Errorf("config.operator.name is required")
	}
	if c.Gemini.Model == "" {
		return fmt.Errorf("config.gemini.model is required")
	}
	if c.Gemini.ProModel == "" {
		return fmt.Errorf("config.gemini.pro_model is required")
	}
	if c.Gemini.MaxRetries < 0 {
		return fmt.Errorf("config.gemini.max_retries must not be negative")
	}
	if c.Remote.TimeoutSec <= 0 {
		return fmt.Errorf("config.remote.timeout_sec must be positive")
	}
	if c.Remote.URL != "" && c.Remote.AnonKey == "" && c.Remote.ServiceKey == "" {
		return fmt.Errorf("config.remote requires anon_key or service_key when url is set")
	}
	for name, d := range c.Oficio.Destinatarios {
		if name == "" {
			return fmt.Errorf("config.oficio.destinatarios has an empty key")
		}
		if d.Orgao == "" {
			return fmt.Errorf("destinatario %s missing orgao", name)
		}
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "gabinete.yml")
}

// GenerateDefault returns the default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Default returns the default Config struct.
func Default() *Config {
	var cfg Config
	_ = yaml.NewDecoder(bytes.NewBufferString(defaultTemplate)).Decode(&cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `operator:
  name: Alex Santana Mendes
  matricula: "012078"
  role: Oficial de Promotoria
  unit: 4ª PJCrim

gemini:
  api_key: ""
  model: gemini-3-flash-preview
  pro_model: gemini-3-pro-preview
  max_retries: 3

remote:
  url: ""
  anon_key: ""
  service_key: ""
  session: ""
  timeout_sec: 15

esaj:
  base_url: https://esaj.tjsp.jus.br/cpopg/search.do

oficio:
  destinatarios:
    GERAL_DP:
      orgao: Defensoria Pública do Estado de São Paulo
      contato: Defensor(a) Público(a) responsável
      endereco: Av. Liberdade, 32 - Liberdade, São Paulo - SP
      email: atendimento@defensoria.sp.def.br
    INQUERITO_APARTADO:
      orgao: Delegacia de Polícia competente
      contato: Delegado(a) de Polícia Titular
      endereco: a definir pela distribuição
      email: ""
    URGENCIA_IC:
      orgao: Instituto de Criminalística
      contato: Diretor(a) do Núcleo
      endereco: R. Moncorvo Filho, 410 - Butantã, São Paulo - SP
      email: ic@policiacientifica.sp.gov.br
    CORREGEDORIA:
      orgao: Corregedoria Geral do Ministério Público
      contato: Corregedor-Geral
      endereco: R. Riachuelo, 115 - Centro, São Paulo - SP
      email: corregedoria@mpsp.mp.br
    PEDIDO_COPIAS_JUIZO:
      orgao: Juízo da Vara Criminal competente
      contato: MM. Juiz(a) de Direito
      endereco: Fórum Criminal da Barra Funda, São Paulo - SP
      email: ""
    GAESP_ABUSO:
      orgao: GAESP - Grupo de Atuação Especial de Segurança Pública
      contato: Promotor(a) de Justiça coordenador(a)
      endereco: R. Riachuelo, 115 - Centro, São Paulo - SP
      email: gaesp@mpsp.mp.br
`
