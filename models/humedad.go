package models

import (
	"time"

	"go-geofal-humedad/formula"
)

// Humedad 含水量试验记录 (ASTM D2216), the payload shared with the report generator.
type Humedad struct {
	// 表头
	Muestra      string `json:"muestra" binding:"required"`
	NumeroOT     string `json:"numero_ot" binding:"required"`
	FechaEnsayo  string `json:"fecha_ensayo"`
	RealizadoPor string `json:"realizado_por" binding:"required"`

	// 试验条件: "-" | "SI" | "NO"
	CondicionMasaMenor   string `json:"condicion_masa_menor" binding:"omitempty,oneof=- SI NO"`
	CondicionCapas       string `json:"condicion_capas" binding:"omitempty,oneof=- SI NO"`
	CondicionTemperatura string `json:"condicion_temperatura" binding:"omitempty,oneof=- SI NO"`
	CondicionExcluido    string `json:"condicion_excluido" binding:"omitempty,oneof=- SI NO"`

	// 样品描述
	TipoMuestra           string `json:"tipo_muestra,omitempty"`
	CondicionMuestra      string `json:"condicion_muestra,omitempty"`
	TamanoMaximoParticula string `json:"tamano_maximo_particula,omitempty"`

	// 方法, derived from the particle size table
	MetodoA bool `json:"metodo_a"`
	MetodoB bool `json:"metodo_b"`

	// 试验数据 (g)
	NumeroEnsayo                       *int     `json:"numero_ensayo,omitempty" binding:"omitempty,gte=1"`
	RecipienteNumero                   string   `json:"recipiente_numero,omitempty"`
	MasaRecipienteMuestraHumeda        *float64 `json:"masa_recipiente_muestra_humeda,omitempty" binding:"omitempty,gte=0"`
	MasaRecipienteMuestraSeca          *float64 `json:"masa_recipiente_muestra_seca,omitempty" binding:"omitempty,gte=0"`
	MasaRecipienteMuestraSecaConstante *float64 `json:"masa_recipiente_muestra_seca_constante,omitempty" binding:"omitempty,gte=0"`
	MasaRecipiente                     *float64 `json:"masa_recipiente,omitempty" binding:"omitempty,gte=0"`

	// 公式结果, an operator value wins over the computed one
	MasaAgua         *float64 `json:"masa_agua,omitempty"`
	MasaMuestraSeca  *float64 `json:"masa_muestra_seca,omitempty"`
	ContenidoHumedad *float64 `json:"contenido_humedad,omitempty"`
	MasaMuestraNeta  *float64 `json:"masa_muestra_neta,omitempty"`

	// 方法 A 表格
	MetodoATamano1      string `json:"metodo_a_tamano_1,omitempty"`
	MetodoATamano2      string `json:"metodo_a_tamano_2,omitempty"`
	MetodoATamano3      string `json:"metodo_a_tamano_3,omitempty"`
	MetodoAMasa1        string `json:"metodo_a_masa_1,omitempty"`
	MetodoAMasa2        string `json:"metodo_a_masa_2,omitempty"`
	MetodoAMasa3        string `json:"metodo_a_masa_3,omitempty"`
	MetodoALegibilidad1 string `json:"metodo_a_legibilidad_1,omitempty"`
	MetodoALegibilidad2 string `json:"metodo_a_legibilidad_2,omitempty"`
	MetodoALegibilidad3 string `json:"metodo_a_legibilidad_3,omitempty"`

	// 方法 B 表格
	MetodoBTamano1      string `json:"metodo_b_tamano_1,omitempty"`
	MetodoBTamano2      string `json:"metodo_b_tamano_2,omitempty"`
	MetodoBTamano3      string `json:"metodo_b_tamano_3,omitempty"`
	MetodoBMasa1        string `json:"metodo_b_masa_1,omitempty"`
	MetodoBMasa2        string `json:"metodo_b_masa_2,omitempty"`
	MetodoBMasa3        string `json:"metodo_b_masa_3,omitempty"`
	MetodoBLegibilidad1 string `json:"metodo_b_legibilidad_1,omitempty"`
	MetodoBLegibilidad2 string `json:"metodo_b_legibilidad_2,omitempty"`
	MetodoBLegibilidad3 string `json:"metodo_b_legibilidad_3,omitempty"`

	// 设备
	EquipoBalanza01  string `json:"equipo_balanza_01,omitempty"`
	EquipoBalanza001 string `json:"equipo_balanza_001,omitempty"`
	EquipoHorno      string `json:"equipo_horno,omitempty"`

	Observaciones string `json:"observaciones,omitempty"`

	// 审核
	RevisadoPor   string `json:"revisado_por,omitempty"`
	RevisadoFecha string `json:"revisado_fecha,omitempty"`
	AprobadoPor   string `json:"aprobado_por,omitempty"`
	AprobadoFecha string `json:"aprobado_fecha,omitempty"`
}

// Raw returns the four raw masses of the record.
func (h *Humedad) Raw() formula.Raw {
	return formula.Raw{
		WetMass:         h.MasaRecipienteMuestraHumeda,
		OvenDryMass:     h.MasaRecipienteMuestraSeca,
		ConstantDryMass: h.MasaRecipienteMuestraSecaConstante,
		ContainerMass:   h.MasaRecipiente,
	}
}

// MetodoRow points at one row of the method A/B grid.
type MetodoRow struct {
	Tamano      *string
	Masa        *string
	Legibilidad *string
}

// MetodoARows returns the three method A grid rows.
func (h *Humedad) MetodoARows() []MetodoRow {
	return []MetodoRow{
		{&h.MetodoATamano1, &h.MetodoAMasa1, &h.MetodoALegibilidad1},
		{&h.MetodoATamano2, &h.MetodoAMasa2, &h.MetodoALegibilidad2},
		{&h.MetodoATamano3, &h.MetodoAMasa3, &h.MetodoALegibilidad3},
	}
}

// MetodoBRows returns the three method B grid rows.
func (h *Humedad) MetodoBRows() []MetodoRow {
	return []MetodoRow{
		{&h.MetodoBTamano1, &h.MetodoBMasa1, &h.MetodoBLegibilidad1},
		{&h.MetodoBTamano2, &h.MetodoBMasa2, &h.MetodoBLegibilidad2},
		{&h.MetodoBTamano3, &h.MetodoBMasa3, &h.MetodoBLegibilidad3},
	}
}

// Mediciones is the body of a live recalculation request.
type Mediciones struct {
	MasaRecipienteMuestraHumeda        *float64 `json:"masa_recipiente_muestra_humeda" binding:"omitempty,gte=0"`
	MasaRecipienteMuestraSeca          *float64 `json:"masa_recipiente_muestra_seca" binding:"omitempty,gte=0"`
	MasaRecipienteMuestraSecaConstante *float64 `json:"masa_recipiente_muestra_seca_constante" binding:"omitempty,gte=0"`
	MasaRecipiente                     *float64 `json:"masa_recipiente" binding:"omitempty,gte=0"`
	TamanoMaximoParticula              string   `json:"tamano_maximo_particula"`
}

// Humedad wraps the measurements in an otherwise empty record.
func (m Mediciones) Humedad() Humedad {
	return Humedad{
		MasaRecipienteMuestraHumeda:        m.MasaRecipienteMuestraHumeda,
		MasaRecipienteMuestraSeca:          m.MasaRecipienteMuestraSeca,
		MasaRecipienteMuestraSecaConstante: m.MasaRecipienteMuestraSecaConstante,
		MasaRecipiente:                     m.MasaRecipiente,
		TamanoMaximoParticula:              m.TamanoMaximoParticula,
	}
}

// HumedadSummary 列表项
type HumedadSummary struct {
	ID               int64     `json:"id"`
	Codigo           string    `json:"codigo"`
	UserID           int       `json:"user_id"`
	Muestra          string    `json:"muestra"`
	NumeroOT         string    `json:"numero_ot"`
	FechaEnsayo      string    `json:"fecha_ensayo"`
	RealizadoPor     string    `json:"realizado_por"`
	ContenidoHumedad *float64  `json:"contenido_humedad,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HumedadDetail 单条记录
type HumedadDetail struct {
	HumedadSummary
	Checksum string  `json:"checksum"`
	Payload  Humedad `json:"payload"`
}

// HumedadSaveResponse 保存结果
type HumedadSaveResponse struct {
	ID       int64  `json:"id"`
	Codigo   string `json:"codigo"`
	Checksum string `json:"checksum"`
	Updated  bool   `json:"updated"`
}
