/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-17 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\server\handlers.go
 * @Description: 路由处理器
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package server

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kamalyes/go-toolbox/pkg/json"
	"github.com/kamalyes/go-wsmonitor/models"
	"github.com/kamalyes/go-wsmonitor/repository"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 64 << 10

// HealthResponse 健康检查响应
type HealthResponse struct {
	URL          string                  `json:"url"`
	State        models.ConnectionStatus `json:"state"`
	Open         bool                    `json:"open"`
	SessionID    string                  `json:"session_id,omitempty"`
	ConnectCount int64                   `json:"connect_count"`
}

// StateResponse 聚合器运行状态
type StateResponse struct {
	Loading           bool     `json:"loading"`
	Error             string   `json:"error,omitempty"`
	TrackedPoints     []string `json:"tracked_points"`
	AlarmHistoryLimit int      `json:"alarm_history_limit"`
}

// PointView 单个测点视图
type PointView struct {
	models.PointState
	Pending        bool   `json:"pending"`
	PendingControl string `json:"pending_control,omitempty"`
}

// ControlRequest 控制请求体
type ControlRequest struct {
	Value string `json:"value"`
}

// ArchiveResponse 归档查询响应
type ArchiveResponse struct {
	Total   int64                 `json:"total"`
	Records []*models.AlarmRecord `json:"records"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		URL:          s.conn.URL(),
		State:        s.conn.State(),
		Open:         s.conn.IsOpen(),
		SessionID:    s.conn.SessionID(),
		ConnectCount: s.conn.ConnectCount(),
	}
	status := http.StatusOK
	if !resp.Open {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, StateResponse{
		Loading:           s.store.Loading(),
		Error:             s.store.Error(),
		TrackedPoints:     s.store.TrackedPoints(),
		AlarmHistoryLimit: s.store.AlarmHistoryLimit(),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Summary())
}

func (s *Server) handleSystem(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.SystemStatus())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Refresh(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ============================================================================
// 测点
// ============================================================================

func (s *Server) handleListPoints(w http.ResponseWriter, r *http.Request) {
	status := models.PointStatus(r.URL.Query().Get("status"))
	if status == "" {
		s.writeJSON(w, http.StatusOK, s.store.Points())
		return
	}
	if !status.IsValid() {
		s.writeMessage(w, http.StatusBadRequest, "invalid point status: "+status.String())
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.PointsByStatus(status))
}

func (s *Server) handleGetPoint(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	point, ok := s.store.Point(name)
	if !ok {
		s.writeError(w, models.NewTypedError(models.ErrTypePointNotFound, "point %s", name))
		return
	}
	view := PointView{PointState: point}
	view.PendingControl, view.Pending = s.store.PendingControl(name)
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSubscribePoint(w http.ResponseWriter, r *http.Request) {
	if err := s.store.SubscribePoint(chi.URLParam(r, "name")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleUnsubscribePoint(w http.ResponseWriter, r *http.Request) {
	if err := s.store.UnsubscribePoint(chi.URLParam(r, "name")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	var req ControlRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeMessage(w, http.StatusBadRequest, "invalid control request: "+err.Error())
		return
	}
	if err := s.store.SendControl(r.Context(), chi.URLParam(r, "name"), req.Value); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ============================================================================
// 设备
// ============================================================================

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	status := models.DeviceStatus(r.URL.Query().Get("status"))
	if status == "" {
		s.writeJSON(w, http.StatusOK, s.store.Devices())
		return
	}
	if !status.IsValid() {
		s.writeMessage(w, http.StatusBadRequest, "invalid device status: "+status.String())
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.DevicesByStatus(status))
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	device, ok := s.store.Device(chi.URLParam(r, "id"))
	if !ok {
		s.writeMessage(w, http.StatusNotFound, "device not found")
		return
	}
	s.writeJSON(w, http.StatusOK, device)
}

// ============================================================================
// 告警
// ============================================================================

func (s *Server) handleListAlarms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseLimit(query.Get("limit"))
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	alarms := s.store.Alarms()
	if level := models.AlarmLevel(query.Get("level")); level != "" {
		if !level.IsValid() {
			s.writeMessage(w, http.StatusBadRequest, "invalid alarm level: "+level.String())
			return
		}
		alarms = s.store.AlarmsByLevel(level)
	}
	if limit > 0 && len(alarms) > limit {
		alarms = alarms[:limit]
	}
	s.writeJSON(w, http.StatusOK, alarms)
}

func (s *Server) handleRecentAlarms(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.RecentAlarms())
}

func (s *Server) handleClearAlarms(w http.ResponseWriter, r *http.Request) {
	s.store.ClearAlarms()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseLimit(query.Get("limit"))
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	opts := &repository.AlarmQueryOptions{
		Level:     models.AlarmLevel(query.Get("level")),
		Type:      query.Get("type"),
		DeviceID:  query.Get("device"),
		PointName: query.Get("point"),
		Limit:     limit,
	}
	if opts.Level != "" && !opts.Level.IsValid() {
		s.writeMessage(w, http.StatusBadRequest, "invalid alarm level: "+opts.Level.String())
		return
	}
	if since := query.Get("since"); since != "" {
		ms, err := strconv.ParseInt(since, 10, 64)
		if err != nil {
			s.writeMessage(w, http.StatusBadRequest, "since must be unix milliseconds")
			return
		}
		opts.Since = time.UnixMilli(ms)
	}

	total, err := s.archive.Count(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	records, err := s.archive.Query(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []*models.AlarmRecord{}
	}
	s.writeJSON(w, http.StatusOK, ArchiveResponse{Total: total, Records: records})
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.nodes.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nodes)
}

// ============================================================================
// 编解码
// ============================================================================

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, models.NewTypedError(models.ErrTypeConfigInvalid, "limit must be a non-negative integer: %q", raw)
	}
	return limit, nil
}

func (s *Server) readJSON(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.ErrorKV("序列化响应失败", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// writeError 按错误类型映射状态码
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.logger.WarnKV("请求处理失败", "status", status, "error", err)
	}
	s.writeMessage(w, status, err.Error())
}

func statusForError(err error) int {
	switch {
	case models.IsInvalidCommandError(err), models.IsConfigError(err):
		return http.StatusBadRequest
	case models.IsPointNotFoundError(err):
		return http.StatusNotFound
	case models.IsControlRejectedError(err):
		return http.StatusConflict
	case models.IsClientShutdownError(err):
		return http.StatusServiceUnavailable
	case models.IsFetchError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
