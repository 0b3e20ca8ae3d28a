package cms

import (
	"github.com/suntech-x/cmsadmin/internal/domain"
	"github.com/suntech-x/cmsadmin/pkg/content"
	"github.com/suntech-x/cmsadmin/pkg/endpoints"
)

// preparePost turns bare image ids in both content bodies into image URLs.
func (s *Service) preparePost(p *domain.Post) error {
	for _, body := range []*string{&p.ContentEN, &p.ContentVI} {
		out, ids, err := content.ResolveImages(*body, s.images, endpoints.SizeMedium)
		if err != nil {
			return err
		}
		if len(ids) > 0 {
			s.log.DebugObj("resolved post content images", "image_ids", ids)
			*body = out
		}
	}
	return nil
}
