package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"egunkari/internal/model"
	"egunkari/internal/sheets"
)

// Posts sheet columns (A:L).
const (
	postColID = iota
	postColAuthorID
	postColAuthorName
	postColTitle
	postColContent
	postColTags
	postColCreatedAt
	postColUpdatedAt
	postColViews
	postColLikes
	postColComments
	postColIsDeleted
	postColumnCount
)

// PostHeaders is the header row of the posts sheet.
var PostHeaders = []string{
	"ID", "Author ID", "Author Name", "Title", "Content",
	"Tags", "Created At", "Updated At", "Views",
	"Likes", "Comments", "IsDeleted",
}

const (
	firstDataRow = 2
	deletedFlag  = "TRUE"
	activeFlag   = "FALSE"
)

type postRepository struct {
	store sheets.Store
	sheet string
}

func NewPostRepository(store sheets.Store, sheet string) PostRepository {
	return &postRepository{store: store, sheet: sheet}
}

func (r *postRepository) dataRange() string {
	return sheets.Rows(r.sheet, postColID, postColumnCount-1, firstDataRow)
}

// Create appends the post as a new row. Comments are written as a JSON array.
func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	comments, err := model.EncodeComments(p.Comments)
	if err != nil {
		return err
	}

	deleted := activeFlag
	if p.IsDeleted {
		deleted = deletedFlag
	}

	row := []string{
		p.ID,
		p.AuthorID,
		p.AuthorName,
		p.Title,
		p.Content,
		strings.Join(p.Tags, ","),
		p.CreatedAt,
		p.UpdatedAt,
		strconv.Itoa(p.Views),
		strconv.Itoa(p.Likes),
		comments,
		deleted,
	}
	if err := r.store.Append(ctx, r.dataRange(), [][]string{row}); err != nil {
		return fmt.Errorf("append post: %w", err)
	}
	return nil
}

// GetByID scans for the first row with a matching id.
func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	rows, err := r.readRows(ctx)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		if sheets.Value(row, postColID) != id || id == "" {
			continue
		}
		return postFromRow(row, firstDataRow+i)
	}
	return nil, model.ErrPostNotFound
}

func (r *postRepository) ListActive(ctx context.Context) ([]model.Post, error) {
	return r.listActive(ctx, func(row []string) bool { return true })
}

func (r *postRepository) ListActiveByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	return r.listActive(ctx, func(row []string) bool {
		return sheets.Value(row, postColAuthorID) == authorID
	})
}

func (r *postRepository) listActive(ctx context.Context, keep func([]string) bool) ([]model.Post, error) {
	rows, err := r.readRows(ctx)
	if err != nil {
		return nil, err
	}

	posts := []model.Post{}
	for i, row := range rows {
		if sheets.Value(row, postColID) == "" || isDeleted(row) || !keep(row) {
			continue
		}
		post, err := postFromRow(row, firstDataRow+i)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

func (r *postRepository) SetViews(ctx context.Context, row, views int) error {
	return r.setCell(ctx, postColViews, row, strconv.Itoa(views))
}

func (r *postRepository) SetLikes(ctx context.Context, row, likes int) error {
	return r.setCell(ctx, postColLikes, row, strconv.Itoa(likes))
}

func (r *postRepository) SetComments(ctx context.Context, row int, comments []model.Comment) error {
	encoded, err := model.EncodeComments(comments)
	if err != nil {
		return err
	}
	return r.setCell(ctx, postColComments, row, encoded)
}

func (r *postRepository) MarkDeleted(ctx context.Context, row int) error {
	return r.setCell(ctx, postColIsDeleted, row, deletedFlag)
}

func (r *postRepository) setCell(ctx context.Context, col, row int, value string) error {
	if row < firstDataRow {
		return fmt.Errorf("invalid post row %d", row)
	}
	rng := sheets.Cell(r.sheet, col, row)
	if err := r.store.Update(ctx, rng, [][]string{{value}}); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (r *postRepository) readRows(ctx context.Context) ([][]string, error) {
	rows, err := r.store.Get(ctx, r.dataRange())
	if err != nil {
		return nil, fmt.Errorf("read posts: %w", err)
	}
	return rows, nil
}

func isDeleted(row []string) bool {
	return sheets.Value(row, postColIsDeleted) == deletedFlag
}

// postFromRow maps a sheet row. Unparseable counters read as 0.
func postFromRow(row []string, rowNum int) (*model.Post, error) {
	comments, err := model.DecodeComments(sheets.Value(row, postColComments))
	if err != nil {
		return nil, fmt.Errorf("%w: row %d: %v", model.ErrMalformedPostRow, rowNum, err)
	}

	return &model.Post{
		ID:         sheets.Value(row, postColID),
		AuthorID:   sheets.Value(row, postColAuthorID),
		AuthorName: sheets.Value(row, postColAuthorName),
		Title:      sheets.Value(row, postColTitle),
		Content:    sheets.Value(row, postColContent),
		Tags:       model.ParseTags(sheets.Value(row, postColTags)),
		CreatedAt:  sheets.Value(row, postColCreatedAt),
		UpdatedAt:  sheets.Value(row, postColUpdatedAt),
		Views:      parseCounter(sheets.Value(row, postColViews)),
		Likes:      parseCounter(sheets.Value(row, postColLikes)),
		Comments:   comments,
		IsDeleted:  isDeleted(row),
		Row:        rowNum,
	}, nil
}

func parseCounter(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
