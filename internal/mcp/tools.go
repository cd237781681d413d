package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"lonelog/internal/delta"
	"lonelog/internal/parser"
	"lonelog/internal/store"
)

type ParseLogInput struct {
	Text string `json:"text" jsonschema:"Lonelog session text"`
}

type ExtractDeltasInput struct {
	Text string `json:"text" jsonschema:"Lonelog session text"`
}

type EntityStateInput struct {
	Campaign string `json:"campaign,omitempty" jsonschema:"restrict to a campaign"`
	Type     string `json:"type,omitempty" jsonschema:"pc or npc"`
	Name     string `json:"name" jsonschema:"entity name, matched case-insensitively"`
}

type ListEntitiesInput struct {
	Campaign string `json:"campaign,omitempty" jsonschema:"restrict to a campaign"`
	Type     string `json:"type,omitempty" jsonschema:"pc or npc"`
}

type ListProgressInput struct {
	Campaign string `json:"campaign,omitempty" jsonschema:"restrict to a campaign"`
	Name     string `json:"name,omitempty" jsonschema:"clock, track, event or timer name"`
}

type ListThreadsInput struct {
	Campaign string `json:"campaign,omitempty" jsonschema:"restrict to a campaign"`
}

type ParseLogOutput struct {
	Entries []EntryOutput `json:"entries"`
}

type ExtractDeltasOutput struct {
	EntityDeltas    []EntityDeltaOutput `json:"entity_deltas"`
	ProgressChanges []ProgressOutput    `json:"progress_changes"`
	ThreadChanges   []ThreadOutput      `json:"thread_changes"`
}

type EntityStateOutput struct {
	States []SummaryOutput `json:"states"`
}

type ListEntitiesOutput struct {
	Entities []EntitySummaryOutput `json:"entities"`
}

type ListProgressOutput struct {
	Progress []ProgressOutput `json:"progress"`
}

type ListThreadsOutput struct {
	Threads []ThreadOutput `json:"threads"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        ToolParseLog,
		Description: "Classify each line of Lonelog text into typed entries",
	}, s.handleParseLog)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        ToolExtractDeltas,
		Description: "Extract entity, progress and thread changes from Lonelog text",
	}, s.handleExtractDeltas)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        ToolEntityState,
		Description: "Summarize the accumulated state of an ingested entity",
	}, s.handleEntityState)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        ToolListEntities,
		Description: "List ingested pcs and npcs with optional filters",
	}, s.handleListEntities)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        ToolListProgress,
		Description: "List clock, track, event and timer updates in session order",
	}, s.handleListProgress)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        ToolListThreads,
		Description: "List thread state updates in session order",
	}, s.handleListThreads)
}

func (s *Server) handleParseLog(ctx context.Context, req *sdk.CallToolRequest, input ParseLogInput) (*sdk.CallToolResult, ParseLogOutput, error) {
	entries := parser.Parse(input.Text)
	output := make([]EntryOutput, 0, len(entries))
	for _, entry := range entries {
		output = append(output, entryOutput(entry))
	}
	return nil, ParseLogOutput{Entries: output}, nil
}

func (s *Server) handleExtractDeltas(ctx context.Context, req *sdk.CallToolRequest, input ExtractDeltasInput) (*sdk.CallToolResult, ExtractDeltasOutput, error) {
	result := delta.Extract(parser.Parse(input.Text))

	output := ExtractDeltasOutput{
		EntityDeltas:    make([]EntityDeltaOutput, 0, len(result.EntityDeltas)),
		ProgressChanges: make([]ProgressOutput, 0, len(result.ProgressChanges)),
		ThreadChanges:   make([]ThreadOutput, 0, len(result.ThreadChanges)),
	}
	for _, d := range result.EntityDeltas {
		output.EntityDeltas = append(output.EntityDeltas, entityDeltaOutput(d))
	}
	for _, p := range result.ProgressChanges {
		output.ProgressChanges = append(output.ProgressChanges, progressOutput(p))
	}
	for _, th := range result.ThreadChanges {
		output.ThreadChanges = append(output.ThreadChanges, ThreadOutput{Name: th.Name, To: th.To})
	}
	return nil, output, nil
}

func (s *Server) handleEntityState(ctx context.Context, req *sdk.CallToolRequest, input EntityStateInput) (*sdk.CallToolResult, EntityStateOutput, error) {
	if input.Name == "" {
		return nil, EntityStateOutput{}, fmt.Errorf("name is required")
	}
	summaries, err := store.EntityStates(ctx, s.db, input.Campaign, input.Type, input.Name)
	if err != nil {
		return nil, EntityStateOutput{}, err
	}

	output := make([]SummaryOutput, 0, len(summaries))
	for _, summary := range summaries {
		output = append(output, summaryOutput(summary))
	}
	return nil, EntityStateOutput{States: output}, nil
}

func (s *Server) handleListEntities(ctx context.Context, req *sdk.CallToolRequest, input ListEntitiesInput) (*sdk.CallToolResult, ListEntitiesOutput, error) {
	items, err := s.db.ListEntities(ctx, input.Campaign, input.Type)
	if err != nil {
		return nil, ListEntitiesOutput{}, err
	}

	output := make([]EntitySummaryOutput, 0, len(items))
	for _, item := range items {
		output = append(output, entitySummaryOutput(item))
	}
	return nil, ListEntitiesOutput{Entities: output}, nil
}

func (s *Server) handleListProgress(ctx context.Context, req *sdk.CallToolRequest, input ListProgressInput) (*sdk.CallToolResult, ListProgressOutput, error) {
	records, err := s.db.ListProgress(ctx, input.Campaign, input.Name)
	if err != nil {
		return nil, ListProgressOutput{}, err
	}

	output := make([]ProgressOutput, 0, len(records))
	for _, record := range records {
		output = append(output, progressRecordOutput(record))
	}
	return nil, ListProgressOutput{Progress: output}, nil
}

func (s *Server) handleListThreads(ctx context.Context, req *sdk.CallToolRequest, input ListThreadsInput) (*sdk.CallToolResult, ListThreadsOutput, error) {
	records, err := s.db.ListThreads(ctx, input.Campaign)
	if err != nil {
		return nil, ListThreadsOutput{}, err
	}

	output := make([]ThreadOutput, 0, len(records))
	for _, record := range records {
		output = append(output, threadRecordOutput(record))
	}
	return nil, ListThreadsOutput{Threads: output}, nil
}
