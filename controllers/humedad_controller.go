package controllers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-geofal-humedad/config"
	"go-geofal-humedad/formula"
	"go-geofal-humedad/humedad"
	"go-geofal-humedad/middleware"
	"go-geofal-humedad/models"
	"go-geofal-humedad/report"
	"go-geofal-humedad/specimen"
	"go-geofal-humedad/utils"
)

// 响应头
const (
	HeaderHumedadID       = "X-Humedad-Id"
	HeaderHumedadChecksum = "X-Humedad-Checksum"
	xlsxContentType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var errEnsayoNotFound = errors.New("ensayo not found")

// HumedadController 处理含水量试验相关的请求
type HumedadController struct {
	DB        *sql.DB
	Table     *specimen.Table
	Reports   report.Generator
	Equipment map[string]string
	Logger    *zap.Logger
	Now       func() time.Time
}

// NewHumedadController 创建一个新的HumedadController实例
func NewHumedadController(db *sql.DB, table *specimen.Table, reports report.Generator, equipment map[string]string, logger *zap.Logger) *HumedadController {
	return &HumedadController{
		DB:        db,
		Table:     table,
		Reports:   reports,
		Equipment: equipment,
		Logger:    logger,
		Now:       time.Now,
	}
}

// tablaResponse 参考表
type tablaResponse struct {
	MetodoA []specimen.Entry `json:"metodo_a"`
	MetodoB []specimen.Entry `json:"metodo_b"`
}

// GetTabla 返回 ASTM D2216 试样尺寸与最小质量表
func (c *HumedadController) GetTabla(ctx *gin.Context) {
	utils.Success(ctx, tablaResponse{
		MetodoA: c.Table.Rows(specimen.MethodA),
		MetodoB: c.Table.Rows(specimen.MethodB),
	})
}

// Calcular 实时计算派生值与试样质量是否足够
func (c *HumedadController) Calcular(ctx *gin.Context) {
	var req models.Mediciones
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}
	rec := req.Humedad()
	if err := formula.Validate(rec.Raw()); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}
	utils.Success(ctx, humedad.Evaluate(&rec, c.Table))
}

// SaveHumedad 保存试验记录, optionally returning the generated report.
//
// Query: download=true|false, ensayo_id=<id> to update an existing record.
func (c *HumedadController) SaveHumedad(ctx *gin.Context) {
	userID := ctx.GetInt(middleware.ContextUserID)

	download, err := parseBoolQuery(ctx, "download")
	if err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}
	var ensayoID int64
	if raw := ctx.Query("ensayo_id"); raw != "" {
		ensayoID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || ensayoID <= 0 {
			utils.BadRequest(ctx, "无效的 ensayo_id")
			return
		}
	}

	var rec models.Humedad
	if err := ctx.ShouldBindJSON(&rec); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}
	if err := formula.Validate(rec.Raw()); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}
	if err := c.validateEquipment(&rec); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	final, ev := humedad.Finalize(rec, c.Table)
	checksum, err := utils.Checksum(final)
	if err != nil {
		utils.InternalServerError(ctx, err.Error())
		return
	}

	var xlsx []byte
	if download {
		xlsx, err = c.Reports.Generate(ctx.Request.Context(), final)
		if errors.Is(err, report.ErrDisabled) {
			utils.ServiceUnavailable(ctx, err.Error())
			return
		}
		if err != nil {
			c.Logger.Error("report generation failed", zap.String("numero_ot", final.NumeroOT), zap.Error(err))
			utils.BadGateway(ctx, "报告生成失败")
			return
		}
	}

	saved := models.HumedadSaveResponse{ID: ensayoID, Checksum: checksum, Updated: ensayoID != 0}
	if ensayoID != 0 {
		saved.Codigo, err = c.updateEnsayo(ctx.Request.Context(), ensayoID, final, checksum)
	} else {
		saved.ID, saved.Codigo, err = c.insertEnsayo(ctx.Request.Context(), userID, final, checksum)
	}
	if errors.Is(err, errEnsayoNotFound) {
		utils.NotFound(ctx, "记录不存在")
		return
	}
	if err != nil {
		c.Logger.Error("save ensayo failed", zap.Int64("ensayo_id", ensayoID), zap.Error(err))
		utils.InternalServerError(ctx, "保存记录失败")
		return
	}

	c.Logger.Info("ensayo saved",
		zap.Int64("id", saved.ID),
		zap.String("codigo", saved.Codigo),
		zap.Bool("updated", saved.Updated),
		zap.Stringer("masa_adecuada", ev.Adequacy),
	)

	ctx.Header(HeaderHumedadID, strconv.FormatInt(saved.ID, 10))
	ctx.Header(HeaderHumedadChecksum, checksum)
	if !download {
		utils.Success(ctx, saved)
		return
	}
	filename := utils.ReportFilename(final.NumeroOT, c.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, xlsxContentType, xlsx)
}

// GetHumedadList 获取试验记录列表
func (c *HumedadController) GetHumedadList(ctx *gin.Context) {
	limit := config.DefaultListLimit
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.BadRequest(ctx, "无效的 limit")
			return
		}
		limit = min(n, config.MaxListLimit)
	}

	query := `SELECT id, codigo, user_id, muestra, numero_ot, fecha_ensayo, realizado_por,
		contenido_humedad, created_at, updated_at FROM humedad_ensayos`
	var params []interface{}
	if ot := ctx.Query("numero_ot"); ot != "" {
		query += " WHERE numero_ot LIKE ?"
		params = append(params, "%"+ot+"%")
	}
	query += " ORDER BY id DESC LIMIT ?"
	params = append(params, limit)

	rows, err := c.DB.QueryContext(ctx.Request.Context(), query, params...)
	if err != nil {
		c.Logger.Error("list ensayos failed", zap.Error(err))
		utils.InternalServerError(ctx, "查询记录失败")
		return
	}
	defer rows.Close()

	summaries := []models.HumedadSummary{}
	for rows.Next() {
		var s models.HumedadSummary
		var fecha sql.NullString
		var contenido sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.Codigo, &s.UserID, &s.Muestra, &s.NumeroOT, &fecha,
			&s.RealizadoPor, &contenido, &s.CreatedAt, &s.UpdatedAt); err != nil {
			utils.InternalServerError(ctx, err.Error())
			return
		}
		s.FechaEnsayo = fecha.String
		s.ContenidoHumedad = nullFloat(contenido)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		utils.InternalServerError(ctx, err.Error())
		return
	}

	utils.Success(ctx, summaries)
}

// GetHumedad 获取单个试验记录
func (c *HumedadController) GetHumedad(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.BadRequest(ctx, "无效的ID")
		return
	}

	var d models.HumedadDetail
	var fecha sql.NullString
	var contenido sql.NullFloat64
	var payload []byte
	err = c.DB.QueryRowContext(ctx.Request.Context(), `SELECT id, codigo, user_id, muestra, numero_ot,
		fecha_ensayo, realizado_por, contenido_humedad, created_at, updated_at, checksum, payload
		FROM humedad_ensayos WHERE id = ?`, id).Scan(
		&d.ID, &d.Codigo, &d.UserID, &d.Muestra, &d.NumeroOT, &fecha, &d.RealizadoPor,
		&contenido, &d.CreatedAt, &d.UpdatedAt, &d.Checksum, &payload,
	)
	if errors.Is(err, sql.ErrNoRows) {
		utils.NotFound(ctx, "记录不存在")
		return
	}
	if err != nil {
		c.Logger.Error("get ensayo failed", zap.Int64("id", id), zap.Error(err))
		utils.InternalServerError(ctx, "查询记录失败")
		return
	}
	if err := json.Unmarshal(payload, &d.Payload); err != nil {
		utils.InternalServerError(ctx, fmt.Sprintf("记录数据损坏: %v", err))
		return
	}
	d.FechaEnsayo = fecha.String
	d.ContenidoHumedad = nullFloat(contenido)

	utils.Success(ctx, d)
}

// validateEquipment 设备编号必须为 "-" 或目录中的编号
func (c *HumedadController) validateEquipment(rec *models.Humedad) error {
	selected := map[string]string{
		"equipo_balanza_01":  rec.EquipoBalanza01,
		"equipo_balanza_001": rec.EquipoBalanza001,
		"equipo_horno":       rec.EquipoHorno,
	}
	for key, v := range selected {
		if v == "" || v == "-" {
			continue
		}
		if want, ok := c.Equipment[key]; !ok || want != v {
			return fmt.Errorf("%s: 未知设备 %q", key, v)
		}
	}
	return nil
}

// insertEnsayo 插入新记录
func (c *HumedadController) insertEnsayo(ctx context.Context, userID int, rec models.Humedad, checksum string) (int64, string, error) {
	codigo, err := utils.GenerateCodigo()
	if err != nil {
		return 0, "", err
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return 0, "", fmt.Errorf("encode payload: %w", err)
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `INSERT INTO humedad_ensayos (
			codigo, user_id, muestra, numero_ot, fecha_ensayo, realizado_por,
			contenido_humedad, payload, checksum
		) VALUES (?,?,?,?,?,?,?,?,?)`,
		codigo, userID, rec.Muestra, rec.NumeroOT, rec.FechaEnsayo, rec.RealizadoPor,
		rec.ContenidoHumedad, payload, checksum,
	)
	if err != nil {
		return 0, "", fmt.Errorf("insert: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, "", fmt.Errorf("last insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, "", fmt.Errorf("commit: %w", err)
	}
	return id, codigo, nil
}

// updateEnsayo 更新已有记录, keeping its codigo and author
func (c *HumedadController) updateEnsayo(ctx context.Context, id int64, rec models.Humedad, checksum string) (string, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var codigo string
	err = tx.QueryRowContext(ctx, "SELECT codigo FROM humedad_ensayos WHERE id = ? FOR UPDATE", id).Scan(&codigo)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errEnsayoNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lock: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE humedad_ensayos SET
			muestra = ?, numero_ot = ?, fecha_ensayo = ?, realizado_por = ?,
			contenido_humedad = ?, payload = ?, checksum = ?
		WHERE id = ?`,
		rec.Muestra, rec.NumeroOT, rec.FechaEnsayo, rec.RealizadoPor,
		rec.ContenidoHumedad, payload, checksum, id,
	)
	if err != nil {
		return "", fmt.Errorf("update: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return codigo, nil
}

func parseBoolQuery(ctx *gin.Context, key string) (bool, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("无效的 %s: %q", key, raw)
	}
	return v, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
