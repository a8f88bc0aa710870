package apisdk

import "context"

// Feed returns the posts visible to the member. Nil categories means all
// of them.
func (s *Session) Feed(ctx context.Context, categories []string, roleFilter string) ([]Post, error) {
	vars := map[string]any{}
	if categories != nil {
		vars["categories"] = categories
	}
	if roleFilter != "" {
		vars["roleFilter"] = roleFilter
	}

	var out struct {
		Posts []Post `json:"posts"`
	}
	err := s.Do(ctx, `query ($categories: [PostCategory!], $roleFilter: PostRoleFilter) {
		posts(categories: $categories, roleFilter: $roleFilter) { `+postFields+` }
	}`, vars, &out)
	return out.Posts, err
}

func (s *Session) Post(ctx context.Context, postID string) (*Post, error) {
	var out struct {
		Post *Post `json:"post"`
	}
	err := s.Do(ctx, `query ($id: ID!) { post(postId: $id) { `+postFields+` } }`,
		map[string]any{"id": postID}, &out)
	if err != nil {
		return nil, err
	}
	return out.Post, nil
}

func (s *Session) CreatePost(ctx context.Context, post PostInput) (*Post, error) {
	var out struct {
		CreatePost *Post `json:"createPost"`
	}
	err := s.Do(ctx, `mutation ($post: PostInput!) { createPost(post: $post) { `+postFields+` } }`,
		map[string]any{"post": post}, &out)
	if err != nil {
		return nil, err
	}
	return out.CreatePost, nil
}

// DeletePost deletes one of the member's own posts.
func (s *Session) DeletePost(ctx context.Context, postID string) error {
	return s.Do(ctx, `mutation ($id: ID!) { deletePost(postId: $id) }`,
		map[string]any{"id": postID}, nil)
}
