package mcp

import (
	"github.com/animesift/animesift/internal/catalog"
	"github.com/animesift/animesift/internal/filter"
	"github.com/animesift/animesift/internal/session"
)

// Input/Output types for each tool

type ViewInput struct {
	Listing bool `json:"listing,omitempty" jsonschema:"Also return the filtered listing for the active watch status"`
}

type ViewOutput struct {
	Page             int              `json:"page"`
	PageSize         int              `json:"pageSize"`
	Slots            []SlotView       `json:"slots"`
	Selected         []int64          `json:"selected"`
	Filter           FilterView       `json:"filter"`
	HasActiveFilters bool             `json:"hasActiveFilters"`
	Counters         session.Counters `json:"counters"`
	HistoryDepth     int              `json:"historyDepth"`
	Listing          []ItemView       `json:"listing,omitempty"`
}

// SlotView is one grid position. ID is -1 for an empty position.
type SlotView struct {
	Position int       `json:"position"`
	ID       int64     `json:"id"`
	Item     *ItemView `json:"item,omitempty"`
	Selected bool      `json:"selected,omitempty"`
	Status   string    `json:"status,omitempty"`
}

type ItemView struct {
	Title         string   `json:"title,omitempty"`
	OriginalTitle string   `json:"originalTitle,omitempty"`
	Score         *float64 `json:"score,omitempty"`
	Year          int      `json:"year,omitempty"`
	Episodes      int      `json:"episodes,omitempty"`
	Tags          string   `json:"tags,omitempty"`
	Synopsis      string   `json:"synopsis,omitempty"`
}

type FilterView struct {
	Search      string   `json:"search"`
	Tags        []string `json:"tags"`
	MinRating   float64  `json:"minRating"`
	YearStart   *int     `json:"yearStart,omitempty"`
	YearEnd     *int     `json:"yearEnd,omitempty"`
	WatchStatus string   `json:"watchStatus"`
	Layout      string   `json:"layout"`
}

type ItemInput struct {
	ID int64 `json:"id" jsonschema:"Catalog subject id"`
}

type SelectOutput struct {
	ID       int64 `json:"id"`
	Selected bool  `json:"selected"`
}

type SwipeInput struct {
	ID        int64  `json:"id" jsonschema:"Subject id currently at the position"`
	Position  int    `json:"position" jsonschema:"Zero-based grid position"`
	Direction string `json:"direction" jsonschema:"left (skip) or right (watched)"`
}

type SwipeOutput struct {
	Position   int   `json:"position"`
	RemovedID  int64 `json:"removedId"`
	InsertedID int64 `json:"insertedId"`
}

type ConfirmInput struct {
	IDs []int64 `json:"ids,omitempty" jsonschema:"Ids to mark watched; the current selection when omitted"`
}

type PageInput struct{}

type PageOutput struct {
	Page    int    `json:"page"`
	Message string `json:"message,omitempty"`
}

type UndoOutput struct {
	Action           string  `json:"action"`
	Page             int     `json:"page"`
	RestoredID       int64   `json:"restoredId,omitempty"`
	DecisionReverted bool    `json:"decisionReverted,omitempty"`
	Deselected       []int64 `json:"deselected,omitempty"`
}

type NavigateInput struct {
	Direction string `json:"direction" jsonschema:"next or prev"`
}

type FilterInput struct {
	Search       *string  `json:"search,omitempty" jsonschema:"Search text; wrap a tag in $ signs to match tags literally"`
	SubmitSearch bool     `json:"submitSearch,omitempty" jsonschema:"Turn a $tag$ search into a tag filter"`
	MinRating    *float64 `json:"minRating,omitempty" jsonschema:"Minimum score, 0 disables"`
	YearStart    *int     `json:"yearStart,omitempty" jsonschema:"Earliest year"`
	YearEnd      *int     `json:"yearEnd,omitempty" jsonschema:"Latest year"`
	ClearYears   bool     `json:"clearYears,omitempty" jsonschema:"Remove both year bounds"`
	WatchStatus  *string  `json:"watchStatus,omitempty" jsonschema:"all, watched, unwatched, interested or skipped"`
	Layout       *string  `json:"layout,omitempty" jsonschema:"small, medium or large"`
	Clear        bool     `json:"clear,omitempty" jsonschema:"Reset search, tags and panel filters first"`
}

type TagInput struct {
	Tag    string `json:"tag,omitempty" jsonschema:"Tag text"`
	Action string `json:"action" jsonschema:"add, remove or top"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Number of tags for top, 20 when omitted"`
}

type TagOutput struct {
	Changed bool       `json:"changed"`
	Tags    []string   `json:"tags"`
	Top     []TagCount `json:"top,omitempty"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type UnmarkInput struct {
	IDs []int64 `json:"ids" jsonschema:"Ids whose latest decision is removed"`
}

type UnmarkOutput struct {
	Removed int `json:"removed"`
}

type StatsInput struct{}

type ResetInput struct {
	Confirm bool `json:"confirm" jsonschema:"Must be true to erase every decision"`
}

func itemView(item catalog.Item) ItemView {
	return ItemView{
		Title:         item.Title,
		OriginalTitle: item.OriginalTitle,
		Score:         item.Score,
		Year:          item.Year,
		Episodes:      item.EpisodeCount,
		Tags:          item.Tags,
		Synopsis:      item.Synopsis,
	}
}

func filterView(state filter.State) FilterView {
	tags := state.SelectedTags
	if tags == nil {
		tags = []string{}
	}
	return FilterView{
		Search:      state.SearchQuery,
		Tags:        tags,
		MinRating:   state.MinRating,
		YearStart:   state.YearStart,
		YearEnd:     state.YearEnd,
		WatchStatus: string(state.WatchStatus),
		Layout:      string(state.Layout),
	}
}
