package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/beatforge/fieldgate/internal/core/api"
	"github.com/beatforge/fieldgate/internal/types"
)

// inspectorHandlers adapts InspectorService to the Struct-based wire API.
type inspectorHandlers struct {
	svc *api.InspectorService
}

var _ InspectorServer = (*inspectorHandlers)(nil)

func (h *inspectorHandlers) OpenDocument(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	typeName, err := stringField(req, "type")
	if err != nil {
		return nil, err
	}
	var payload []byte
	if v, ok := req.GetFields()["payload"]; ok {
		if payload, err = protojson.Marshal(v); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "payload: %v", err)
		}
	}

	id, err := h.svc.OpenDocument(ctx, typeName, payload)
	if err != nil {
		return nil, toStatus(err, codes.InvalidArgument)
	}
	return response(map[string]any{"document_id": string(id)})
}

func (h *inspectorHandlers) ListDocuments(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	open := h.svc.OpenDocuments()
	ids := make([]any, len(open))
	for i, id := range open {
		ids[i] = string(id)
	}
	names := h.svc.Catalog().Names()
	typeNames := make([]any, len(names))
	for i, n := range names {
		typeNames[i] = n
	}
	return response(map[string]any{"open": ids, "types": typeNames})
}

func (h *inspectorHandlers) ListFields(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := documentID(req)
	if err != nil {
		return nil, err
	}
	views, err := h.svc.ListFields(ctx, id)
	if err != nil {
		return nil, toStatus(err, codes.Internal)
	}
	fields := make([]*structpb.Value, len(views))
	for i, v := range views {
		if fields[i], err = fieldMap(v); err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"fields": structpb.NewListValue(&structpb.ListValue{Values: fields}),
	}}, nil
}

func (h *inspectorHandlers) GetField(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := documentID(req)
	if err != nil {
		return nil, err
	}
	path, err := stringField(req, "path")
	if err != nil {
		return nil, err
	}
	view, err := h.svc.GetField(ctx, id, path)
	if err != nil {
		return nil, toStatus(err, codes.Internal)
	}
	return fieldResponse(view)
}

func (h *inspectorHandlers) SetField(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := documentID(req)
	if err != nil {
		return nil, err
	}
	path, err := stringField(req, "path")
	if err != nil {
		return nil, err
	}
	v, ok := req.GetFields()["value"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "value required")
	}
	raw, err := protojson.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "value: %v", err)
	}

	view, err := h.svc.SetField(ctx, id, path, raw)
	if err != nil {
		return nil, toStatus(err, codes.Internal)
	}
	return fieldResponse(view)
}

func (h *inspectorHandlers) SnapshotDocument(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := documentID(req)
	if err != nil {
		return nil, err
	}
	snap, err := h.svc.SnapshotDocument(ctx, id)
	if err != nil {
		return nil, toStatus(err, codes.Internal)
	}
	return snapshotResponse(snap)
}

func (h *inspectorHandlers) SaveDocument(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := documentID(req)
	if err != nil {
		return nil, err
	}
	saved, err := h.svc.SaveDocument(ctx, id)
	if err != nil {
		return nil, toStatus(err, codes.Unavailable)
	}
	return response(map[string]any{
		"document_id": string(saved.ID),
		"revision":    float64(saved.Revision),
		"saved_at":    saved.SavedAt.UTC().Format(time.RFC3339Nano),
	})
}

func (h *inspectorHandlers) LoadDocument(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := documentID(req)
	if err != nil {
		return nil, err
	}
	snap, err := h.svc.LoadDocument(ctx, id)
	if err != nil {
		return nil, toStatus(err, codes.Unavailable)
	}
	return snapshotResponse(snap)
}

func (h *inspectorHandlers) CloseDocument(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := documentID(req)
	if err != nil {
		return nil, err
	}
	if err := h.svc.CloseDocument(ctx, id); err != nil {
		return nil, toStatus(err, codes.Internal)
	}
	return &structpb.Struct{}, nil
}

func stringField(req *structpb.Struct, name string) (string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s required", name)
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok || s.StringValue == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a non-empty string", name)
	}
	if len(s.StringValue) > types.MaxPathLength {
		return "", status.Errorf(codes.InvalidArgument, "%s exceeds %d bytes", name, types.MaxPathLength)
	}
	return s.StringValue, nil
}

func documentID(req *structpb.Struct) (types.DocumentID, error) {
	s, err := stringField(req, "document_id")
	if err != nil {
		return "", err
	}
	id, err := types.ParseDocumentID(s)
	if err != nil {
		return "", status.Errorf(codes.InvalidArgument, "document_id: %v", err)
	}
	return id, nil
}

func response(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// jsonValue converts a JSON document into a structpb value.
func jsonValue(raw json.RawMessage) (*structpb.Value, error) {
	v := new(structpb.Value)
	if len(raw) == 0 {
		return structpb.NewNullValue(), nil
	}
	if err := protojson.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return v, nil
}

func fieldMap(view api.FieldView) (*structpb.Value, error) {
	value, err := jsonValue(view.Value)
	if err != nil {
		return nil, err
	}
	return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		"path":      structpb.NewStringValue(view.Path),
		"depth":     structpb.NewNumberValue(float64(view.Depth)),
		"type":      structpb.NewStringValue(view.Type),
		"semantics": structpb.NewStringValue(view.Semantics),
		"value":     value,
	}}), nil
}

func fieldResponse(view api.FieldView) (*structpb.Struct, error) {
	v, err := fieldMap(view)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return v.GetStructValue(), nil
}

func snapshotResponse(snap api.Snapshot) (*structpb.Struct, error) {
	payload, err := jsonValue(snap.Payload)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"document_id": structpb.NewStringValue(string(snap.ID)),
		"type":        structpb.NewStringValue(snap.TypeName),
		"revision":    structpb.NewNumberValue(float64(snap.Revision)),
		"payload":     payload,
	}}, nil
}
