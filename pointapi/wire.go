/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-10-14 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-10-19 00:00:00
 * @FilePath: \go-wsmonitor\pointapi\wire.go
 * @Description: 接口报文
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package pointapi

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/kamalyes/go-wsmonitor/models"
)

type batchRequest struct {
	PointIDs []string `json:"pointIds"`
}

type controlRequest struct {
	PointID string `json:"pointId"`
	Value   string `json:"value"`
}

// ControlResponse 控制下发响应
type ControlResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// pointsResponse 测点查询响应
// points 既可以是以测点名为键的对象，也可以是带 name/pointId 字段的数组
type pointsResponse struct {
	Points map[string]models.PointSnapshot
}

type wireSnapshot struct {
	Name      string          `json:"name"`
	PointID   string          `json:"pointId"`
	Value     json.RawMessage `json:"value"`
	Quality   json.RawMessage `json:"quality"`
	TS        json.Number     `json:"ts"`
	Timestamp json.Number     `json:"timestamp"`
}

func (w wireSnapshot) snapshot() models.PointSnapshot {
	ts := w.TS
	if ts == "" {
		ts = w.Timestamp
	}
	return models.PointSnapshot{
		Value:     models.NormalizeValue(w.Value),
		Timestamp: parseMillis(ts),
		Quality:   models.NormalizeValue(w.Quality),
	}
}

func (w wireSnapshot) key() string {
	if w.Name != "" {
		return w.Name
	}
	return w.PointID
}

func parseMillis(n json.Number) int64 {
	if n == "" {
		return 0
	}
	if v, err := n.Int64(); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(string(n), 64); err == nil {
		return int64(f)
	}
	return 0
}

// UnmarshalJSON 兼容对象与数组两种 points 形式
func (r *pointsResponse) UnmarshalJSON(data []byte) error {
	var aux struct {
		Points json.RawMessage `json:"points"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Points = make(map[string]models.PointSnapshot)

	raw := bytes.TrimSpace(aux.Points)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '[' {
		var list []wireSnapshot
		if err := json.Unmarshal(raw, &list); err != nil {
			return err
		}
		for _, w := range list {
			if key := w.key(); key != "" {
				r.Points[key] = w.snapshot()
			}
		}
		return nil
	}

	var byName map[string]wireSnapshot
	if err := json.Unmarshal(raw, &byName); err != nil {
		return err
	}
	for name, w := range byName {
		r.Points[name] = w.snapshot()
	}
	return nil
}
