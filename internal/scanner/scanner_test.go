package scanner_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/marketplace-indexer/internal/domain"
	"github.com/feral-file/marketplace-indexer/internal/mocks"
	"github.com/feral-file/marketplace-indexer/internal/scanner"
)

const contract = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func TestBind(t *testing.T) {
	ctx := context.Background()
	raw := scanner.RawEvent{BlockNumber: 10, TxHash: "0xabc"}
	parsed := []domain.Event{&domain.DeployData{TxHash: "0xabc"}}

	tests := []struct {
		name         string
		category     domain.EventCategory
		contractType domain.ContractType
		expect       func(s *mocks.MockScanner)
	}{
		{
			name:         "deploy",
			category:     domain.EventCategoryDeploy,
			contractType: domain.ContractTypeFabric721,
			expect: func(s *mocks.MockScanner) {
				s.EXPECT().FetchDeploys(ctx, contract, domain.ContractTypeFabric721, uint64(1), uint64(9)).Return([]scanner.RawEvent{raw}, nil)
				s.EXPECT().ParseDeploy(ctx, raw, domain.ContractTypeFabric721).Return(parsed, nil)
			},
		},
		{
			name:         "mint",
			category:     domain.EventCategoryMint,
			contractType: domain.ContractTypeERC1155,
			expect: func(s *mocks.MockScanner) {
				s.EXPECT().FetchMints(ctx, contract, domain.ContractTypeERC1155, uint64(1), uint64(9)).Return([]scanner.RawEvent{raw}, nil)
				s.EXPECT().ParseMint(ctx, raw, domain.ContractTypeERC1155).Return(parsed, nil)
			},
		},
		{
			name:         "buy",
			category:     domain.EventCategoryBuy,
			contractType: domain.ContractTypeExchange,
			expect: func(s *mocks.MockScanner) {
				s.EXPECT().FetchBuys(ctx, contract, uint64(1), uint64(9)).Return([]scanner.RawEvent{raw}, nil)
				s.EXPECT().ParseBuy(ctx, raw).Return(parsed, nil)
			},
		},
		{
			name:         "approve",
			category:     domain.EventCategoryApprove,
			contractType: domain.ContractTypeERC20,
			expect: func(s *mocks.MockScanner) {
				s.EXPECT().FetchApprovals(ctx, contract, uint64(1), uint64(9)).Return([]scanner.RawEvent{raw}, nil)
				s.EXPECT().ParseApproval(ctx, raw).Return(parsed, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s := mocks.NewMockScanner(ctrl)
			tt.expect(s)

			src, err := scanner.Bind(s, tt.category, contract, tt.contractType)
			require.NoError(t, err)
			assert.Equal(t, tt.category, src.Category)
			assert.Equal(t, contract, src.Contract)
			assert.Equal(t, tt.contractType, src.ContractType)

			raws, err := src.Fetch(ctx, 1, 9)
			require.NoError(t, err)
			require.Len(t, raws, 1)

			events, err := src.Parse(ctx, raws[0])
			require.NoError(t, err)
			assert.Equal(t, parsed, events)
		})
	}
}

func TestBind_UnsupportedCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := scanner.Bind(mocks.NewMockScanner(ctrl), domain.EventCategory("mystery"), contract, domain.ContractTypeERC721)
	assert.ErrorIs(t, err, domain.ErrUnsupportedCategory)
}

func TestMalformed(t *testing.T) {
	err := scanner.Malformed(scanner.RawEvent{TxHash: "0xabc", LogIndex: 4}, "bad %s", "topic")
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
	assert.Contains(t, err.Error(), "tx 0xabc log 4: bad topic")
}
